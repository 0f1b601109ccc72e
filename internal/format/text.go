// Package format provides shared text formatting helpers for notification
// and terminal output.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// TruncateTitle shortens a title to at most max runes. Titles longer than max
// render as exactly max runes followed by "..."; titles at or under max are
// returned unchanged.
func TruncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Pluralize returns word with an "s" appended when n != 1.
func Pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// CountNoun formats a count followed by the correctly pluralized noun,
// e.g. CountNoun(2, "day") == "2 days".
func CountNoun(n int, word string) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, word))
}

// DisplayWidth returns the visible width of a string in terminal columns,
// accounting for wide characters and stripping ANSI escape sequences.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// TruncateToWidth truncates a string to fit within maxWidth display columns,
// appending "..." when truncation occurs. ANSI sequences are stripped before
// measuring, so colored input comes back plain when truncated.
func TruncateToWidth(s string, maxWidth int) string {
	plain := StripAnsi(s)
	if runewidth.StringWidth(plain) <= maxWidth {
		return s
	}

	target := maxWidth - 3
	if target < 0 {
		target = 0
	}

	width := 0
	var b strings.Builder
	for _, r := range plain {
		rw := runewidth.RuneWidth(r)
		if width+rw > target {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	return b.String() + "..."
}

// PadRight pads a string with spaces to reach the target visible width.
func PadRight(s string, targetWidth int) string {
	w := DisplayWidth(s)
	if w >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-w)
}
