package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/tui/components"
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// snapshotState holds the year the snapshot tab is looking at.
type snapshotState struct {
	year int
}

// snapshotBounds is the inclusive year range a snapshot can be taken for.
func (a App) snapshotBounds() (lo, hi int) {
	lo = a.sess.CurrentYear()
	hi = max(a.sess.Params().RetirementYear, lo)
	return lo, hi
}

func (a *App) updateSnapshotKeys(key string) bool {
	lo, hi := a.snapshotBounds()
	year := a.snap.year
	switch key {
	case "h", "[":
		year--
	case "l", "]":
		year++
	case "H", "home":
		year = lo
	case "L", "end":
		year = hi
	default:
		return false
	}
	a.snap.year = max(lo, min(year, hi))
	return true
}

func (a App) renderSnapshotTab(cw int) string {
	t := theme.Active
	lo, hi := a.snapshotBounds()
	year := max(lo, min(a.snap.year, hi))

	snap, err := a.sess.Snapshot(year)
	if err != nil {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		return components.ContentCard("Snapshot", warn.Render(err.Error()), cw)
	}

	var b strings.Builder

	var saved, target float64
	funded := 0
	for _, g := range snap.Goals {
		saved += g.SavedAmount
		target += g.TargetAmount
		if g.Funded {
			funded++
		}
	}

	cards := []components.Metric{
		{Label: "Snapshot Year", Value: fmt.Sprintf("%d", snap.Year), Note: cli.FormatMonths(snap.MonthsElapsed) + " from now"},
		{Label: "Retirement Savings", Value: cli.FormatMoneyShort(snap.RetirementSavings), Color: t.Amount(snap.RetirementSavings)},
		{Label: "Goal Savings", Value: cli.FormatMoneyShort(saved), Note: "of " + cli.FormatMoneyShort(target)},
		{Label: "Goals Funded", Value: fmt.Sprintf("%d / %d", funded, len(snap.Goals))},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	labelW := 18
	barW := max(innerW-labelW-40, 10)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	if len(snap.Goals) == 0 {
		body.WriteString(muted.Render("No goals to track."))
	}
	for i, g := range snap.Goals {
		detail := fmt.Sprintf("%s / %s", cli.FormatMoneyWhole(g.SavedAmount), cli.FormatMoneyWhole(g.TargetAmount))
		body.WriteString(components.GoalBar(g.Name, g.PercentSaved, detail, labelW, barW))
		if i < len(snap.Goals)-1 {
			body.WriteString("\n")
		}
	}
	body.WriteString("\n\n")
	body.WriteString(muted.Render(fmt.Sprintf("[h/l] year  [H/L] %d / %d", lo, hi)))

	b.WriteString(components.ContentCard(fmt.Sprintf("Goal Progress in %d", snap.Year), body.String(), cw))
	return b.String()
}
