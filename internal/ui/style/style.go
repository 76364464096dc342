// Package style provides the colors, icons and lipgloss styles shared by log and report rendering.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
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
)

// Report styles used by the plan and build summaries.
var (
	GroupHeader = lipgloss.NewStyle().Foreground(Iris).Bold(true)
	Stale       = lipgloss.NewStyle().Foreground(Yellow)
	Current     = lipgloss.NewStyle().Foreground(Green)
	Muted       = lipgloss.NewStyle().Foreground(Slate)
)
