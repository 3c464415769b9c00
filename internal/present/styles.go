// Package present renders pn output for the terminal: report lines styled by
// severity and rows with the lead-end cycle heads picked out.
package present

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	LightForeground = lipgloss.Color("#101F38") // Dark Blue
	LightMuted      = lipgloss.Color("#8a94a6")
	LightPrimary    = lipgloss.Color("#101F38")

	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkMuted      = lipgloss.Color("#5f6b80")
	DarkPrimary    = lipgloss.Color("#8BC34A") // Lime Green (flipped)

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{Foreground: LightForeground, Primary: LightPrimary, Muted: LightMuted}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{Foreground: DarkForeground, Primary: DarkPrimary, Muted: DarkMuted, IsDark: true}
}

// DetectTheme picks dark mode from COLORFGBG or PN_DARK_MODE=1, light
// otherwise.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("PN_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components used by Printer.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	OK        lipgloss.Style
	Warn      lipgloss.Style
	Alert     lipgloss.Style
	Highlight lipgloss.Style
	Cross     lipgloss.Style
	Places    lipgloss.Style
}

// NewStyles builds styles for theme bound to renderer r.
func NewStyles(r *lipgloss.Renderer, theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: r.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Body: r.NewStyle().
			Foreground(theme.Foreground),
		Muted: r.NewStyle().
			Foreground(theme.Muted),

		OK: r.NewStyle().
			Foreground(Success),
		Warn: r.NewStyle().
			Foreground(Warning).
			Bold(true),
		Alert: r.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Highlight: r.NewStyle().
			Foreground(Info).
			Bold(true),
		Cross: r.NewStyle().
			Foreground(theme.Muted),
		Places: r.NewStyle().
			Foreground(theme.Primary),
	}
}
