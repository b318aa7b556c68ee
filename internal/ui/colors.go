package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Nord palette used by the status panel.
const (
	ColorFrost      lipgloss.Color = "#88C0D0" // Titles
	ColorPolarNight lipgloss.Color = "#4C566A" // Borders, separators, hints
	ColorTeal       lipgloss.Color = "#8FBCBB" // Labels
	ColorAurora     lipgloss.Color = "#A3BE8C" // Values, success
	ColorSky        lipgloss.Color = "#81A1C1" // Informational
	ColorPurple     lipgloss.Color = "#B48EAD" // Highlights
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = ColorAurora
	ColorError   lipgloss.Color = "#BF616A"
	ColorWarning lipgloss.Color = "#EBCB8B"
	ColorInfo    lipgloss.Color = ColorSky
	ColorMuted   lipgloss.Color = ColorPolarNight
)

// Theme groups the styles every panel line is built from.
type Theme struct {
	Title     lipgloss.Style
	Border    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
}

// DefaultTheme returns the Nord theme.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Foreground(ColorFrost).Bold(true),
		Border:    lipgloss.NewStyle().Foreground(ColorPolarNight),
		Label:     lipgloss.NewStyle().Foreground(ColorTeal),
		Value:     lipgloss.NewStyle().Foreground(ColorAurora),
		Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
		Error:     lipgloss.NewStyle().Foreground(ColorError),
		Info:      lipgloss.NewStyle().Foreground(ColorInfo),
		Highlight: lipgloss.NewStyle().Foreground(ColorPurple),
		Dim:       lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// PlainTheme returns a theme with no styling at all.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Title: s, Border: s, Label: s, Value: s, Success: s,
		Warning: s, Error: s, Info: s, Highlight: s, Dim: s,
	}
}

// SuccessStyle returns a style for success messages.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle returns a style for error messages.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle returns a style for warning messages.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning)
}

// MutedStyle returns a style for secondary text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// DisableColors switches lipgloss to monochrome output (for --no-color).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
