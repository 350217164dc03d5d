package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dmirandah/accionpro/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(sellColor)

	// verdictBoxStyle reproduces the dashboard recommendation card: bold text
	// behind a thick colored left border.
	verdictBoxStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.ThickBorder(), false, false, false, true)

	buyColor  = lipgloss.Color("#28a745")
	sellColor = lipgloss.Color("#dc3545")
	holdColor = lipgloss.Color("#ffc107")
)

// VerdictColor maps a verdict to its display color.
func VerdictColor(v types.Verdict) lipgloss.Color {
	switch v {
	case types.VerdictBuy:
		return buyColor
	case types.VerdictSell:
		return sellColor
	case types.VerdictHold:
		return holdColor
	default:
		return holdColor
	}
}

// VerdictStyle returns the inline style for a verdict label.
func VerdictStyle(v types.Verdict) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(VerdictColor(v))
}
