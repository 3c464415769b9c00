package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"pnengine/internal/analysis"
	"pnengine/internal/diff"
	"pnengine/internal/notation"
)

// Printer writes styled output to w.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter returns a printer for w. With color off every method returns
// its input unchanged; with color on the profile is detected from w.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return newPrinter(w, r)
}

// NewPrinterWithProfile forces a color profile, regardless of what w is.
func NewPrinterWithProfile(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return newPrinter(w, r)
}

func newPrinter(w io.Writer, r *lipgloss.Renderer) *Printer {
	theme := DetectTheme()
	r.SetHasDarkBackground(theme.IsDark)
	return &Printer{w: w, styles: NewStyles(r, theme)}
}

// Styles exposes the printer's styles.
func (p *Printer) Styles() Styles { return p.styles }

// ReportLine styles a single report line by its severity prefix. Only the
// prefix is colored; lines without one are rendered in the body style.
func (p *Printer) ReportLine(line string) string {
	for _, s := range []struct {
		prefix string
		style  lipgloss.Style
	}{
		{analysis.PrefixOK, p.styles.OK},
		{analysis.PrefixWarn, p.styles.Warn},
		{analysis.PrefixAlert, p.styles.Alert},
	} {
		if rest, ok := strings.CutPrefix(line, s.prefix); ok {
			return s.style.Render(s.prefix) + rest
		}
	}
	if label, value, ok := strings.Cut(line, ": "); ok {
		return p.styles.Title.Render(label+":") + " " + value
	}
	return p.styles.Body.Render(line)
}

// Row styles every symbol of row that appears in highlights.
func (p *Printer) Row(row string, highlights []string) string {
	if len(highlights) == 0 {
		return row
	}
	marked := make(map[rune]bool, len(highlights))
	for _, h := range highlights {
		for _, r := range h {
			marked[r] = true
		}
	}
	var b strings.Builder
	for _, r := range row {
		if marked[r] {
			b.WriteString(p.styles.Highlight.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens renders tokens joined by sep, crosses dimmed.
func (p *Printer) Tokens(tokens []notation.Token, sep string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		if t.IsCross() {
			parts[i] = p.styles.Cross.Render(string(t))
		} else {
			parts[i] = p.styles.Places.Render(string(t))
		}
	}
	return strings.Join(parts, sep)
}

// PrintReport writes every report line.
func (p *Printer) PrintReport(r analysis.Report) error {
	for _, line := range r.Lines {
		if _, err := fmt.Fprintln(p.w, p.ReportLine(line)); err != nil {
			return err
		}
	}
	return nil
}

// PrintRows writes one row per line. When leadLength is positive, lead-end
// rows are followed by a dimmed lead marker.
func (p *Printer) PrintRows(rows, highlights []string, leadLength int) error {
	for i, row := range rows {
		line := p.Row(row, highlights)
		if leadLength > 0 && i > 0 && i%leadLength == 0 {
			line += "  " + p.styles.Muted.Render(fmt.Sprintf("lead %d", i/leadLength))
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Println writes a line in the body style.
func (p *Printer) Println(s string) error {
	_, err := fmt.Fprintln(p.w, p.styles.Body.Render(s))
	return err
}

// Printf writes formatted text as is.
func (p *Printer) Printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// Label renders a "label: value" pair with the label in the title style.
func (p *Printer) Label(label, value string) string {
	return p.styles.Title.Render(label+":") + " " + value
}

// Alert renders s in the alert style.
func (p *Printer) Alert(s string) string { return p.styles.Alert.Render(s) }

// OK renders s in the success style.
func (p *Printer) OK(s string) string { return p.styles.OK.Render(s) }

// PrintDiff writes a row diff, added rows in the success style and removed
// rows in the alert style.
func (p *Printer) PrintDiff(d *diff.RowDiff) error {
	for _, header := range []string{"--- " + d.OldName, "+++ " + d.NewName} {
		if _, err := fmt.Fprintln(p.w, p.styles.Title.Render(header)); err != nil {
			return err
		}
	}
	for _, h := range d.Hunks {
		if _, err := fmt.Fprintln(p.w, p.styles.Muted.Render(h.Header())); err != nil {
			return err
		}
		for _, l := range h.Lines {
			line := l.Type.Prefix() + l.Row
			switch l.Type {
			case diff.LineAdded:
				line = p.styles.OK.Render(line)
			case diff.LineRemoved:
				line = p.styles.Alert.Render(line)
			}
			if _, err := fmt.Fprintln(p.w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
