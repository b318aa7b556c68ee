package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestColorConstants(t *testing.T) {
	colors := []lipgloss.Color{
		ColorFrost,
		ColorPolarNight,
		ColorTeal,
		ColorAurora,
		ColorSky,
		ColorPurple,
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
		ColorMuted,
	}

	for _, color := range colors {
		colorStr := string(color)
		assert.NotEmpty(t, colorStr, "color should not be empty")
		assert.True(t, colorStr[0] == '#', "color should start with #: %s", colorStr)
		assert.Len(t, colorStr, 7, "color should be 7 chars (#RRGGBB): %s", colorStr)
	}
}

func TestThemesRenderText(t *testing.T) {
	for name, theme := range map[string]Theme{"default": DefaultTheme(), "plain": PlainTheme()} {
		t.Run(name, func(t *testing.T) {
			styles := []lipgloss.Style{
				theme.Title, theme.Border, theme.Label, theme.Value, theme.Success,
				theme.Warning, theme.Error, theme.Info, theme.Highlight, theme.Dim,
			}
			for _, s := range styles {
				assert.Equal(t, "服务器", StripStyle(s.Render("服务器")))
			}
		})
	}
}

func TestPlainThemeHasNoEscapes(t *testing.T) {
	theme := PlainTheme()
	assert.Equal(t, "text", theme.Error.Render("text"))
}

func TestDisableColors(t *testing.T) {
	assert.NotPanics(t, DisableColors)

	rendered := SuccessStyle().Render("test")
	assert.Equal(t, "test", rendered)
}

func TestStylesAreFunctional(t *testing.T) {
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Success", SuccessStyle()},
		{"Error", ErrorStyle()},
		{"Warning", WarningStyle()},
		{"Muted", MutedStyle()},
	}

	for _, tt := range styles {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				result := tt.style.Render("test text")
				assert.Contains(t, result, "test text")
			})
		})
	}
}
