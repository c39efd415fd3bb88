package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/tui/components"
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	p := a.sess.Params()
	goals := a.sess.Goals()
	schedule := a.sess.Schedule()
	netWorth := a.sess.NetWorth()
	cy := a.sess.CurrentYear()

	var committed float64
	for _, g := range goals {
		if g.ActiveIn(cy) {
			committed += g.MonthlyContribution
		}
	}
	surplus := p.MonthlySurplus()

	var b strings.Builder

	// Row 1: Metric cards
	cards := []components.Metric{
		{Label: "Net Worth at Retirement", Value: cli.FormatMoneyShort(netWorth), Note: fmt.Sprintf("in %d", p.RetirementYear), Color: t.Amount(netWorth)},
		{Label: "Monthly Surplus", Value: cli.FormatMoneyShort(surplus), Note: cli.FormatMoneyWhole(p.MonthlyIncome) + " in", Color: t.Amount(surplus)},
		{Label: "Goal Contributions", Value: cli.FormatMoneyShort(committed), Note: fmt.Sprintf("%d goals", len(goals))},
		{Label: "Years to Retirement", Value: strconv.Itoa(max(p.RetirementYear-cy, 0)), Note: "at " + cli.FormatRate(p.RetirementRate)},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: Retirement balance by year
	if len(schedule) > 0 {
		vals := make([]float64, len(schedule))
		labels := make([]string, len(schedule))
		for i, row := range schedule {
			vals[i] = row.Balance
			labels[i] = strconv.Itoa(row.Year)
		}
		b.WriteString(components.ContentCard(
			"Retirement Balance by Year",
			components.BarChart(vals, labels, t.Accent, components.CardInnerWidth(cw), 10),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Timeline and flow
	timelineCard := func(w int) string {
		return components.ContentCard("Timeline", renderTimeline(a.sess.Timeline(), components.CardInnerWidth(w)), w)
	}
	flowCard := func(w int) string {
		return components.ContentCard("Monthly Flow", renderFlow(schedule, components.CardInnerWidth(w)), w)
	}
	if a.isCompactLayout() {
		b.WriteString(timelineCard(cw))
		b.WriteString("\n")
		b.WriteString(flowCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{timelineCard(halves[0]), flowCard(halves[1])}))
	}

	return b.String()
}

func renderTimeline(points []model.TimelinePoint, innerW int) string {
	t := theme.Active
	yearStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, pt := range points {
		marker, color := "●", t.Accent
		switch pt.Kind {
		case model.TimelineGoal:
			marker, color = "◆", t.Blue
		case model.TimelineRetirement:
			marker, color = "★", t.GreenBright
		}
		labelStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(pt.Kind != model.TimelineGoal)

		b.WriteString(yearStyle.Render(fmt.Sprintf("%d ", pt.Year)))
		b.WriteString(labelStyle.Render(marker + " " + truncStr(pt.Label, max(innerW-8, 4))))
		if pt.Detail != "" {
			b.WriteString("\n")
			b.WriteString(spaceStyle.Render("       "))
			b.WriteString(detailStyle.Render(truncStr(pt.Detail, max(innerW-7, 4))))
		}
		if i < len(points)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderFlow shows how much flows into retirement each year as goals finish.
func renderFlow(schedule []model.YearProjection, innerW int) string {
	t := theme.Active
	if len(schedule) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("Retirement year has passed")
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	avail := make([]float64, len(schedule))
	for i, row := range schedule {
		avail[i] = row.Available
	}
	if limit := max(innerW-16, 1); len(avail) > limit {
		avail = avail[:limit]
	}
	first, last := schedule[0], schedule[len(schedule)-1]

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Into retirement")))
	b.WriteString(components.Sparkline(avail, t.Accent))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", fmt.Sprintf("%d:", first.Year))))
	b.WriteString(valueStyle.Render(cli.FormatMoney(first.Available) + "/mo"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", fmt.Sprintf("%d:", last.Year))))
	b.WriteString(valueStyle.Render(cli.FormatMoney(last.Available) + "/mo"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Goals active:")))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d now, %d at retirement", first.ActiveGoals, last.ActiveGoals)))
	return b.String()
}
