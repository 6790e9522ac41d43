// Package render draws plans and catalogue listings for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Blue      = lipgloss.NewStyle().Foreground(BlueColor)

	// Title heads a plan or listing.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	// Badge marks ratings and depths.
	Badge = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Padding(0, 1)

	// Box frames a rendered plan.
	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	// Interaction styles instruction texts.
	Interaction = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)
