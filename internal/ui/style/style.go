// Package style provides shared styling primitives including brand colors
// and icons for consistent output across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// Text styles.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(Iris).
		Foreground(White)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Iris)

	Muted = lipgloss.NewStyle().
		Foreground(Slate)

	Success = lipgloss.NewStyle().
		Foreground(Green)

	Failure = lipgloss.NewStyle().
		Foreground(Red)

	Pending = lipgloss.NewStyle().
		Foreground(Yellow)
)
