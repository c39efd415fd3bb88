package components

import (
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. flash, when set, replaces
// the key hints on the left.
func RenderStatusBar(width int, flash string, flashErr bool, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [q]uit"
	leftStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if flash != "" {
		left = " " + flash
		leftStyle = leftStyle.Foreground(t.Green)
		if flashErr {
			leftStyle = leftStyle.Foreground(t.Red)
		}
	}
	if right != "" {
		right += " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return style.Render(leftStyle.Render(left) + gap + right)
}
