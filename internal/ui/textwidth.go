package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// RuneWidth returns the number of screen columns r occupies. Control and
// combining characters count as 0, wide characters (emoji, CJK) as 2.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s so it fits in maxWidth columns without splitting
// a character
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	width := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return s[:i]
		}
		width += rw
	}
	return s
}

// TruncateToWidthWithEllipsis truncates a string with "..." if it exceeds maxWidth
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 3 || StringWidth(s) <= maxWidth {
		return TruncateToWidth(s, maxWidth)
	}
	return TruncateToWidth(s, maxWidth-3) + "..."
}

// PadStringToWidth pads a string with spaces to a display width. Wider
// strings are returned unchanged.
func PadStringToWidth(s string, width int) string {
	current := StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}

// WrapToWidth breaks s into lines of at most maxWidth columns, preferring
// to break after a space
func WrapToWidth(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}

	var lines []string
	for s != "" {
		if StringWidth(s) <= maxWidth {
			lines = append(lines, s)
			break
		}

		cut := len(TruncateToWidth(s, maxWidth))
		if space := strings.LastIndexByte(s[:cut], ' '); space > 0 {
			cut = space + 1
		}
		if cut == 0 {
			// A single character wider than the line
			_, cut = utf8.DecodeRuneInString(s)
		}
		lines = append(lines, strings.TrimRight(s[:cut], " "))
		s = s[cut:]
	}
	return lines
}
