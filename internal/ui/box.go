package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// boxBorder supplies the corner, edge and tee glyphs for every box.
var boxBorder = lipgloss.RoundedBorder()

// Section is an optionally titled group of lines inside a box.
type Section struct {
	Title string
	Lines []string
}

// Panel is a titled box of sections, rendered at a fixed total width.
type Panel struct {
	Title    string
	Sections []Section
	Width    int
}

// Render lays the panel out with the default theme.
func (p Panel) Render() []string {
	return RenderBox(p.Title, p.Sections, p.Width)
}

// RenderWith lays the panel out with the given theme.
func (p Panel) RenderWith(theme Theme) []string {
	return BoxRenderer{Theme: theme}.Render(p.Title, p.Sections, p.Width)
}

// ContentWidth returns how many columns a content line may occupy inside a
// box of the given total width: two border columns and a one-column gutter
// on each side are reserved.
func ContentWidth(width int) int {
	return max(0, width-4)
}

// RenderBox renders sections inside a rounded border with the default theme.
// See BoxRenderer.Render.
func RenderBox(title string, sections []Section, width int) []string {
	return BoxRenderer{Theme: DefaultTheme()}.Render(title, sections, width)
}

// BoxRenderer draws bordered boxes.
type BoxRenderer struct {
	Theme Theme
}

// Render returns the box one line per element: a top border embedding the
// title, then per section a separator, an optional title line and the
// section's lines, then a bottom border.
//
// Every returned line is exactly width columns wide once styling is
// stripped, as long as each content line fits in ContentWidth(width). A
// wider line gets no padding and pushes its right border out; lines are
// never truncated or wrapped.
func (r BoxRenderer) Render(title string, sections []Section, width int) []string {
	inner := max(0, width-2)
	lines := make([]string, 0, 2+len(sections)*4)

	lines = append(lines, r.top(title, inner))
	for _, sec := range sections {
		lines = append(lines, r.separator(inner))
		if sec.Title != "" {
			lines = append(lines, r.content(r.Theme.Title.Render(sec.Title), width))
		}
		for _, l := range sec.Lines {
			lines = append(lines, r.content(l, width))
		}
	}
	lines = append(lines, r.Theme.Border.Render(
		boxBorder.BottomLeft+strings.Repeat(boxBorder.Bottom, inner)+boxBorder.BottomRight))

	return lines
}

// top renders "╭─ title ───╮".
func (r BoxRenderer) top(title string, inner int) string {
	b := r.Theme.Border
	if title == "" {
		return b.Render(boxBorder.TopLeft + strings.Repeat(boxBorder.Top, inner) + boxBorder.TopRight)
	}

	// Leading "─ " plus the trailing space around the title.
	used := DisplayWidth(title) + 3
	fill := max(0, inner-used)

	return b.Render(boxBorder.TopLeft+boxBorder.Top+" ") +
		r.Theme.Title.Render(title) +
		b.Render(" "+strings.Repeat(boxBorder.Top, fill)+boxBorder.TopRight)
}

func (r BoxRenderer) separator(inner int) string {
	return r.Theme.Border.Render(boxBorder.MiddleLeft + strings.Repeat(boxBorder.Top, inner) + boxBorder.MiddleRight)
}

func (r BoxRenderer) content(line string, width int) string {
	pad := max(0, ContentWidth(width)-DisplayWidth(line))
	edge := r.Theme.Border.Render(boxBorder.Left)
	return edge + " " + line + strings.Repeat(" ", pad) + " " + edge
}
