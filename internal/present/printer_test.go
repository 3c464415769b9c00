package present

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnengine/internal/analysis"
	"pnengine/internal/diff"
	"pnengine/internal/notation"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("PN_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme when PN_DARK_MODE=1")
	}

	t.Setenv("PN_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme when PN_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black background")
	}
}

func TestPlainPrinterIsTransparent(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, false)

	for _, line := range []string{
		"Length: 60",
		"[OK] Expanded PN: x16x16x16x16x16x12 (length 12)",
		"[WARN] DIFFERENTIAL: period=15 cycles=18347,265",
		"[ALERT] reverse tenors at backstroke (2 rows)",
		"no prefix here",
	} {
		assert.Equal(t, line, p.ReportLine(line))
	}
	assert.Equal(t, "135264", p.Row("135264", []string{"1", "2"}))
	assert.Equal(t, "x.16.x", p.Tokens(notation.Tokenize("x16x"), "."))
}

func TestColorPrinter(t *testing.T) {
	p := NewPrinterWithProfile(&bytes.Buffer{}, termenv.ANSI256)

	row := p.Row("135264", []string{"1", "2"})
	assert.Contains(t, row, "\x1b[")
	assert.Equal(t, "135264", ansi.Strip(row))
	assert.True(t, strings.HasSuffix(row, "64"), "unhighlighted tail should be plain: %q", row)

	line := p.ReportLine("[ALERT] lead end is bad")
	assert.True(t, strings.HasSuffix(line, " lead end is bad"))
	assert.NotEqual(t, "[ALERT] lead end is bad", line)
	assert.Equal(t, "[ALERT] lead end is bad", ansi.Strip(line))

	assert.Equal(t, "x16", ansi.Strip(p.Tokens(notation.Tokenize("x16"), "")))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	r := analysis.Report{Lines: []string{"Length: 2", "[WARN] something"}}
	require.NoError(t, p.PrintReport(r))
	assert.Equal(t, "Length: 2\n[WARN] something\n", buf.String())
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	require.NoError(t, p.PrintRows([]string{"1234", "2143", "1234"}, nil, 0))
	assert.Equal(t, "1234\n2143\n1234\n", buf.String())

	buf.Reset()
	require.NoError(t, p.PrintRows([]string{"1234", "2143", "2413", "4231"}, []string{"1"}, 2))
	assert.Equal(t, "1234\n2143\n2413  lead 1\n4231\n", buf.String())
}

func TestLabel(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, false)
	assert.Equal(t, "Cycles: (1)(23564)", p.Label("Cycles", "(1)(23564)"))
	assert.Equal(t, "boom", p.Alert("boom"))
	assert.Equal(t, "fine", p.OK("fine"))
}

func TestPrintDiff(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	d := diff.NewEngine(0).Rows("plain", "touch", []string{"1234", "2143", "1234"}, []string{"1234", "1243", "1234"})
	require.NoError(t, p.PrintDiff(d))
	assert.Equal(t, diff.Format(d), buf.String())
}
