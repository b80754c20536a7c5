// Package display holds the stateless presentation helpers for terminal
// output: chat prefixes, tool status lines, and error text.
package display

import "github.com/charmbracelet/lipgloss"

var (
	// Colors follow the classic 16-color terminal palette so output stays
	// readable on both light and dark backgrounds.
	green  = lipgloss.Color("2")
	yellow = lipgloss.Color("3")
	red    = lipgloss.Color("1")

	// Labels
	UserLabel      = lipgloss.NewStyle().Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(green).Bold(true)

	// Status lines
	ToolRunning = lipgloss.NewStyle().Foreground(yellow)
	ToolOutput  = lipgloss.NewStyle().Faint(true)
	ToolFailed  = lipgloss.NewStyle().Foreground(red)
	Notice      = lipgloss.NewStyle().Faint(true)
	ErrorText   = lipgloss.NewStyle().Foreground(red)
	Approval    = lipgloss.NewStyle().Foreground(yellow)
)

// Truncate bounds s to max characters, appending an ellipsis when cut.
// Applied uniformly to tool payload previews regardless of content type.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
