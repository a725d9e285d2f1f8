// Package util holds small text helpers shared by the terminal views.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ellipsis marks shortened text.
const ellipsis = "…"

// ShortName shortens a plain team name to at most maxLen runes.
func ShortName(name string, maxLen int) string {
	if maxLen < 1 {
		return ellipsis
	}
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + ellipsis
}

// FitWidth truncates a styled line to width visual columns, keeping its
// escape sequences intact. A width of zero or less leaves s unchanged.
func FitWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}
