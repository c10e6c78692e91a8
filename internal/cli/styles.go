package cli

import "github.com/charmbracelet/lipgloss"

// Output styles, shared by the command runners.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
)
