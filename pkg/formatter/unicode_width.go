package formatter

import (
	"strings"
)

// RuneWidth returns the display width of a rune in a monospace chat client.
// ASCII characters have width 1. Everything else (CJK text, emoji and the
// variation selectors that follow them) is counted as width 2, which keeps
// the boxed tables aligned in Teams, Slack and Telegram code blocks.
func RuneWidth(r rune) int {
	if r == '\t' {
		return 1
	}

	// ASCII is width 1
	if r < 128 {
		return 1
	}

	return 2
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	width := 0
	for _, r := range s {
		width += RuneWidth(r)
	}
	return width
}

// PadString right-pads a string to the specified display width
func PadString(s string, width int) string {
	currentWidth := StringWidth(s)
	if currentWidth >= width {
		return s
	}

	return s + strings.Repeat(" ", width-currentWidth)
}
