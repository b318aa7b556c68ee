package ui

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// narrow classifies runes without the East Asian ambiguous-width rule, so
// box-drawing and braille glyphs stay single-width regardless of locale.
var narrow = &runewidth.Condition{EastAsianWidth: false}

// StripStyle removes ANSI escape sequences and leaves visible text untouched.
func StripStyle(s string) string {
	return ansi.Strip(s)
}

// DisplayWidth returns the number of terminal columns s occupies once its
// escape sequences are stripped. Wide runes count 2, every other rune
// counts 1, so the result is never smaller than the rune count.
//
// Zero-width and combining runes are counted as 1.
func DisplayWidth(s string) int {
	width := 0
	for _, r := range StripStyle(s) {
		width += RuneWidth(r)
	}
	return width
}

// RuneWidth returns 2 for wide runes and 1 for everything else.
func RuneWidth(r rune) int {
	if IsWide(r) {
		return 2
	}
	return 1
}

// IsWide reports whether r occupies two terminal columns.
func IsWide(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK extension A
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK symbols and punctuation
		return true
	case r >= 0xFF01 && r <= 0xFF60: // Fullwidth ASCII variants
		return true
	case r >= 0xFFE0 && r <= 0xFFE6: // Fullwidth signs
		return true
	}
	return narrow.RuneWidth(r) == 2
}
