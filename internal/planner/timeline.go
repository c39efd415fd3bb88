package planner

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/money"
)

// Timeline builds the chronological chart points for a plan: today, each
// goal's target year, and the retirement year with its projected net worth.
func Timeline(p model.Params, goals []model.Goal, netWorth float64, currentYear int) []model.TimelinePoint {
	points := make([]model.TimelinePoint, 0, len(goals)+2)

	points = append(points, model.TimelinePoint{
		Year:   currentYear,
		Label:  "Today",
		Detail: "Current Year: " + strconv.Itoa(currentYear),
		Kind:   model.TimelineToday,
	})

	for _, g := range goals {
		points = append(points, model.TimelinePoint{
			Year:  g.TargetYear,
			Label: g.Name,
			Detail: fmt.Sprintf("Goal: %s · Target: %s by %d · Monthly: %s",
				g.Name, money.Format(g.TargetAmount), g.TargetYear, money.Format(g.MonthlyContribution)),
			Kind: model.TimelineGoal,
		})
	}

	points = append(points, model.TimelinePoint{
		Year:  p.RetirementYear,
		Label: "Retirement",
		Detail: fmt.Sprintf("Retirement Year: %d · Net Worth at Retirement: %s",
			p.RetirementYear, money.Format(netWorth)),
		Kind: model.TimelineRetirement,
	})

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Kind < points[j].Kind
	})
	return points
}
