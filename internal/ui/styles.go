package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/seiton/models"
)

var (
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")
	ColorBlue      = lipgloss.Color("75")

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Comparison cards. The challenger is always on the left.
	StyleCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StyleChallengerCard = StyleCard.BorderForeground(ColorCyan)
	StyleOpponentCard   = StyleCard.BorderForeground(ColorBlue)

	StyleHint = lipgloss.NewStyle().Foreground(ColorCyan).Italic(true)

	StyleSelectTitle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSelectNormal = lipgloss.NewStyle().Foreground(ColorText)
	StyleSelectActive = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSelectDim    = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// TierStyle colours a tier label the way Todoist does: P1 red down to P4 gray.
func TierStyle(t models.Tier) lipgloss.Style {
	switch t {
	case models.TierUrgent:
		return lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	case models.TierHigh:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case models.TierMedium:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	default:
		return StyleSubtle
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
