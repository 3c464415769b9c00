package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnengine/internal/stage"
)

func toks(s ...string) []Token {
	out := make([]Token, len(s))
	for i, v := range s {
		out[i] = Token(v)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"bracketed groups", "(23.45).(67x)", toks("23", "45", "67", "x")},
		{"single group", "(45.12)", toks("45", "12")},
		{"cross inside group", "(45x89.12)", toks("45", "x", "89", "12")},
		{"trailing cross", "(12.x)", toks("12", "x")},
		{"nested groups", "((34.16).(7x)).(9)", toks("34", "16", "7", "x", "9")},
		{"flat run", "12.34.....xx87x.x", toks("12", "34", "x", "x", "87", "x", "x")},
		{"dash is cross", "-16-16", toks("x", "16", "x", "16")},
		{"whitespace delimits", "12 34", toks("12", "34")},

		{"slice on flat run", "23.78x1289[1:3]", toks("78", "x")},
		{"negative stop -1", "23.78x1289[:-1]", toks("23", "78", "x")},
		{"negative stop -2", "23.78x1289[:-2]", toks("23", "78")},
		{"descending slice", "23.78x1289[2:1]", toks("x", "78")},
		{"descending to zero", "23.78x1289[2:0]", toks("x", "78", "23")},
		{"reverse", "(1.2.3.4)[-]", toks("4", "3", "2", "1")},
		{"circular forward", "(a.b.c.d)[2:>3]", toks("c", "d", "a")},
		{"circular backward", "(a.b.c)[1:<]", toks("b", "a", "c")},
		{"chained slices", "(1.2.3.4.5)[1:4][-]", toks("4", "3", "2")},
		{"double reverse", "(1.2.3.4.5)[1:4][-][-]", toks("2", "3", "4")},
		{"slice between reverses", "(1.2.3.4.5)[-][1:3][-]", toks("3", "4")},
		{"cross counts in slice", "12.x.34[:2]", toks("12", "x")},

		{"comma", "1x45.89,29", toks("1", "x", "45", "89", "45", "x", "1", "29")},
		{"comma empty left", ",29", toks("29")},
		{"comma empty right", "12.34,", toks("12", "34", "12")},
		{"comma with slices per side", "(a.b.c)[1:3],(x.y)[-]", toks("b", "c", "b", "y", "x", "y")},
		{"comma below dots and slices", "(1.2)[-].3 , 4.5[1:2]", toks("2", "1", "3", "1", "2", "5")},
		{"comma in nested group", "(1.2.45,),", toks("1", "2", "45", "2", "1", "2", "45", "2", "1")},
		{"comma both sides nested", "(1.2.45,),(6.8.34)", toks("1", "2", "45", "2", "1", "2", "45", "2", "1", "6", "8", "34", "8", "6")},

		{"multiplier", "3(12.56)", toks("12", "56", "12", "56", "12", "56")},
		{"multiplier then slice", "2(1.2.3)[1:3]", toks("2", "3")},
		{"multiplier left of comma", "2(1.2),3", toks("1", "2", "1", "2", "1", "2", "1", "3")},
		{"nested multipliers", "2(3(1))", toks("1", "1", "1", "1", "1", "1")},
		{"multipliers in a group", "(2(1.2).3(4.5))", toks("1", "2", "1", "2", "4", "5", "4", "5", "4", "5")},
		{"multiplier reverse comma", "3(1.2)[-],3", toks("2", "1", "2", "1", "2", "1", "2", "1", "2", "1", "2", "3")},
		{"slice in middle of dot chain", "(1.2).2(3.4)[1:3].(5)", toks("1", "2", "4", "3", "5")},
		{"zero multiplier", "0(12).34", toks("34")},
		{"juxtaposed groups", "x(12)(34)", toks("x", "12", "34")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Evaluate(tt.input, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEvaluate_StagedOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback int
		want     []Token
		stage    int
	}{
		{"semicolon", "6|12.34.16;", 0, toks("12", "34", "16", "34", "56"), 6},
		{"semicolon empty right", "6|12.34;", 0, toks("12", "34", "56"), 6},
		{"semicolon empty left", "6|;12.34", 0, toks("12", "34", "56"), 6},
		{"semicolon single item", "6|12;", 0, toks("12"), 6},
		{"semicolon on ten", "0|12.90;", 0, toks("12", "90", "90"), 10},
		{"semicolon with slices", "6|(12.14.36)[1:3];(56)[-]", 0, toks("14", "36", "36", "56"), 6},
		{"semicolon fallback stage", "12.34;", 6, toks("12", "34", "56"), 6},
		{"prefix beats fallback", "8|12.34;", 6, toks("12", "34", "78"), 8},
		{"multiplier then semicolon", "6|2(12);", 0, toks("12", "12", "56"), 6},
		{"stage reaches nested groups", "6|(12.34;)", 0, toks("12", "34", "56"), 6},
		{"nested comma then semicolon", "6|(1.2.45,);", 0, toks("1", "2", "45", "2", "1", "5", "23", "5", "6"), 6},
		{"mirror", "6|1.x.2=", 0, toks("16", "x", "25"), 6},
		{"mirror with right side", "6|3=12", 0, toks("34", "12"), 6},
		{"mirror middle place", "7|4=", 0, toks("4"), 7},
		{"prefix keeps comma intact", "6|(1.2)[-].3 , 4.5[1:2]", 0, toks("2", "1", "3", "1", "2", "5"), 6},
		{"pb4 less one plus lead end", "4|2(x14x14x14x12)[:-1].1234", 0,
			toks("x", "14", "x", "14", "x", "14", "x", "12", "x", "14", "x", "14", "x", "14", "x", "1234"), 4},
		{"pb4 as palindrome", "4|2(x14x14,12)[:-1].1234", 0,
			toks("x", "14", "x", "14", "x", "14", "x", "12", "x", "14", "x", "14", "x", "14", "x", "1234"), 4},
		{"nested palindromes", "4|2(((x14,).34),12)[:-1].1234", 0,
			toks("x", "14", "x", "34", "x", "14", "x", "12", "x", "14", "x", "34", "x", "14", "x", "1234"), 4},
		{"fallback is clamped", "x", 99, toks("x"), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Evaluate(tt.input, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.stage, n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEvaluate_NoPrefixNoFallback(t *testing.T) {
	got, n, err := Evaluate("x16", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, toks("x", "16"), got)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"semicolon without stage", "12.34;", ErrStageRequired},
		{"semicolon single item without stage", "12;", ErrStageRequired},
		{"mirror without stage", "1=", ErrStageRequired},
		{"mirror outside stage", "6|9=", ErrNoPlaces},
		{"two-symbol prefix", "1E|x", ErrInvalidStagePrefix},
		{"long prefix", "51Efdjrghdfs|x=", ErrInvalidStagePrefix},
		{"cross prefix", "x|12", ErrInvalidStagePrefix},
		{"unknown prefix", "z|", ErrInvalidStagePrefix},
		{"second bar", "6|12|34", ErrSyntax},
		{"unmatched open", "(", ErrSyntax},
		{"unmatched open after pair", "()(", ErrSyntax},
		{"unmatched nested open", "(()", ErrSyntax},
		{"unmatched group", "((12x)", ErrSyntax},
		{"unmatched bracket", "[", ErrSyntax},
		{"bracket after slice", "[][", ErrSyntax},
		{"nested bracket", "[[T]", ErrSyntax},
		{"close paren after slice", "[])).(", ErrSyntax},
		{"paren inside slice", "[)]).(", ErrSyntax},
		{"stray close bracket", "][x]", ErrSyntax},
		{"stray close bracket after group", "()][x]", ErrSyntax},
		{"empty slice spec", "12[]", ErrBadSlice},
		{"non integer bound", "12[a:1]", ErrBadSlice},
		{"missing colon", "12.34[1]", ErrBadSlice},
		{"slice not trailing", "12[0:1]34", ErrSyntax},
		{"group slice not trailing", "(12)[0:1]34", ErrSyntax},
		{"circular on empty", "()[0:>]", ErrEmptyCircular},
		{"two operators one depth", "a,b,c", ErrMultipleOperators},
		{"mixed operators one depth", "8|12.34; , 5678", ErrMultipleOperators},
		{"double comma", "1.2.45,,", ErrMultipleOperators},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Evaluate(tt.input, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v, want %v", err, tt.target)
		})
	}
}

func TestEvaluate_StageErrorMessage(t *testing.T) {
	_, _, err := Evaluate("12.34;", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a valid stage")

	_, _, err = Evaluate("1E|x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't parse stage")
}

func TestEvaluate_ChainedOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []Token
	}{
		{"a,b,c", toks("a", "b", "a", "c")},
		{"1.2.45,,", toks("1", "2", "45", "2", "1", "2", "45", "2", "1")},
		{"8|12.34; , 5678", toks("12", "34", "78", "34", "12", "5678")},
		{"(1.2.45,),(6.8.34,)", toks("1", "2", "45", "2", "1", "2", "45", "2", "1", "6", "8", "34", "8", "6", "8", "34", "8", "6")},
	}
	for _, tt := range tests {
		got, _, err := Evaluate(tt.input, 0, WithChainedOperators(true))
		require.NoError(t, err, tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestEvaluateWithStage(t *testing.T) {
	got, err := EvaluateWithStage("12.34;", 6)
	require.NoError(t, err)
	assert.Equal(t, toks("12", "34", "56"), got)

	_, err = EvaluateWithStage("12.34;", 0)
	assert.True(t, errors.Is(err, ErrStageRequired))

	// The internal convention never reads a prefix.
	_, err = EvaluateWithStage("6|12", 6)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestEvaluate_UnmatchedIndex(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"(12.34", 0},
		{"12.(34", 3},
		{")", 0},
		{"6|12)", 4},
		{"12.34[1:2", 5},
		{"x]", 1},
	}
	for _, tt := range tests {
		_, _, err := Evaluate(tt.input, 0)
		var se *SyntaxError
		require.True(t, errors.As(err, &se), "Evaluate(%q) = %v", tt.input, err)
		assert.Equal(t, tt.pos, se.Pos, tt.input)
		assert.Contains(t, se.Error(), "unmatched")
	}
}

func TestEval_ReusesParsedTree(t *testing.T) {
	node, err := Parse("12.34;")
	require.NoError(t, err)

	six, err := Eval(node, 6)
	require.NoError(t, err)
	eight, err := Eval(node, 8)
	require.NoError(t, err)

	assert.Equal(t, toks("12", "34", "56"), six)
	assert.Equal(t, toks("12", "34", "78"), eight)
}

func TestEval_ClampsStage(t *testing.T) {
	node, err := Parse("12.34;")
	require.NoError(t, err)

	top, err := Eval(node, stage.MaxStage)
	require.NoError(t, err)
	over, err := Eval(node, stage.MaxStage+1)
	require.NoError(t, err)
	assert.Equal(t, top, over)
	assert.Equal(t, Token("UV"), over[len(over)-1])

	none, err := Eval(node, -3)
	assert.Nil(t, none)
	assert.True(t, errors.Is(err, ErrStageRequired))
}

func TestEvaluate_TokenLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"huge repeat", "4611686018427387904(x.x)"},
		{"repeat over limit", "1048577(x)"},
		{"nested repeats", "1024(1025(x))"},
		{"huge circular count", "x.12[0:>4611686018427387904]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Token
			var err error
			require.NotPanics(t, func() { got, _, err = Evaluate(tt.input, 0) })
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrTooManyTokens), "got %v", err)
		})
	}

	got, _, err := Evaluate("1048576(x)", 0)
	require.NoError(t, err)
	assert.Len(t, got, MaxTokens)

	got, _, err = Evaluate("4611686018427387904()", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
