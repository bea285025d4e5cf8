package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorSurface     = lipgloss.Color("#161b22")
	colorBorder      = lipgloss.Color("#30363d")
	colorTextPrimary = lipgloss.Color("#c9d1d9")
	colorTextMuted   = lipgloss.Color("#8b949e")
	colorAccentBlue  = lipgloss.Color("#58a6ff")
	colorAccentGreen = lipgloss.Color("#3fb950")
	colorAccentAmber = lipgloss.Color("#d29922")
	colorAccentRed   = lipgloss.Color("#f85149")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Background(colorSurface).
			Padding(0, 2).
			Bold(true)

	itemNormalStyle = lipgloss.NewStyle().
			Foreground(colorTextPrimary).
			Padding(0, 2)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextPrimary).
				Background(colorSurface).
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(colorAccentBlue).
				Padding(0, 1)

	sourceBadgeStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted).
				MarginRight(1)

	prizeStyle = lipgloss.NewStyle().
			Foreground(colorAccentAmber)

	dateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Italic(true)

	bookmarkStyle = lipgloss.NewStyle().
			Foreground(colorAccentAmber).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Background(colorSurface).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorAccentRed).
			Bold(true).
			Padding(1, 2)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccentBlue).
			Bold(true)
)

// statusStyles colors the lifecycle badge.
var statusStyles = map[string]lipgloss.Style{
	"upcoming": lipgloss.NewStyle().Foreground(colorAccentBlue),
	"ongoing":  lipgloss.NewStyle().Foreground(colorAccentGreen).Bold(true),
	"ended":    lipgloss.NewStyle().Foreground(colorTextMuted),
	"unknown":  lipgloss.NewStyle().Foreground(colorTextMuted),
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
