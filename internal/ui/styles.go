package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for effort axis
	ColorBlue      = lipgloss.Color("75")  // Blue for client work

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Urgent tasks get the warning treatment everywhere they show up.
	StyleUrgent = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)

	// Completed tasks render dim with strikethrough.
	StyleDone = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Matrix canvas border for the map TUI.
	StyleCanvas = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	// Carried task marker while dragging on the map.
	StyleCarried = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	// Calendar cell for today.
	StyleToday = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
