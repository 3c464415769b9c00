package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	abcd := []string{"a", "b", "c", "d"}
	tests := []struct {
		spec string
		in   []string
		want []string
	}{
		{"[-]", abcd, []string{"d", "c", "b", "a"}},
		{"[ - ]", abcd, []string{"d", "c", "b", "a"}},
		{"[1:3]", abcd, []string{"b", "c"}},
		{"[1:]", abcd, []string{"b", "c", "d"}},
		{"[:2]", abcd, []string{"a", "b"}},
		{"[:]", abcd, abcd},
		{"[:-1]", abcd, []string{"a", "b", "c"}},
		{"[-2:]", abcd, []string{"c", "d"}},
		{"[-10:]", abcd, []string{"c", "d"}},
		{"[10:]", abcd, nil},
		{"[:0]", abcd, nil},
		{"[2:2]", abcd, nil},
		{"[3:1]", abcd, []string{"d", "c", "b"}},
		{"[3:0]", abcd, []string{"d", "c", "b", "a"}},
		{"[9:1]", abcd, []string{"d", "c", "b"}},
		{"[+1:3]", abcd, []string{"b", "c"}},
		{"[2:>3]", abcd, []string{"c", "d", "a"}},
		{"[-1:>2]", abcd, []string{"d", "a"}},
		{"[5:>]", abcd, []string{"b", "c", "d", "a"}},
		{"[0:>6]", abcd, []string{"a", "b", "c", "d", "a", "b"}},
		{"[0:>0]", abcd, nil},
		{"[1:<]", []string{"a", "b", "c"}, []string{"b", "a", "c"}},
		{"[0:<3]", abcd, []string{"a", "d", "c"}},
		{"[1:3]", nil, nil},
		{"[-]", nil, nil},
	}
	for _, tt := range tests {
		got, err := Slice(tt.in, tt.spec)
		require.NoError(t, err, tt.spec)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Slice(%v, %q) mismatch (-want +got):\n%s", tt.in, tt.spec, diff)
		}
	}
}

func TestSlice_Ints(t *testing.T) {
	got, err := Slice([]int{1, 2, 3, 4}, "[1:3]")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got)
}

func TestSlice_DoesNotAlias(t *testing.T) {
	in := []string{"a", "b", "c"}
	got, err := Slice(in, "[0:2]")
	require.NoError(t, err)
	got[0] = "z"
	assert.Equal(t, "a", in[0])
}

func TestParseSlice_Errors(t *testing.T) {
	for _, spec := range []string{"1:2", "[1:2", "[]", "[12]", "[a:2]", "[1:b]", "[--1:2]", "[:>3]", "[x:>1]", "[0:>-1]", "[0:>a]"} {
		_, err := ParseSlice(spec)
		assert.True(t, errors.Is(err, ErrBadSlice), "ParseSlice(%q) = %v", spec, err)
	}
}

func TestSlice_CircularCountLimit(t *testing.T) {
	_, err := Slice([]string{"a", "b"}, "[0:>4611686018427387904]")
	assert.True(t, errors.Is(err, ErrTooManyTokens), "got %v", err)

	got, err := Slice([]string{"a", "b"}, "[1:>3]")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, got)
}

func TestSlice_CircularOnEmpty(t *testing.T) {
	_, err := Slice([]string{}, "[0:>2]")
	assert.True(t, errors.Is(err, ErrEmptyCircular))
}

func TestParseSlice_Fields(t *testing.T) {
	s, err := ParseSlice("[ -2 : >3 ]")
	require.NoError(t, err)
	assert.Equal(t, SliceCircular, s.Kind)
	assert.Equal(t, -2, s.Start)
	assert.Equal(t, 3, s.Count)
	assert.True(t, s.HasCount)
	assert.False(t, s.Backward)

	s, err = ParseSlice("[:4]")
	require.NoError(t, err)
	assert.Equal(t, SliceRange, s.Kind)
	assert.False(t, s.HasStart)
	assert.True(t, s.HasStop)
	assert.Equal(t, 4, s.Stop)
}
