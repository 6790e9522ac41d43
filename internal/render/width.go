package render

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 100

// TerminalWidth returns the width of the terminal on stdout, or DefaultWidth.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Truncate shortens s to maxWidth visual columns, adding "..." if truncated.
// ANSI escape codes and wide characters are accounted for.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}

// truncateLines truncates every line of s.
func truncateLines(lines []string, maxWidth int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Truncate(l, maxWidth)
	}
	return out
}
