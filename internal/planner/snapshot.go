package planner

import (
	"github.com/theirongolddev/nestegg/internal/model"
)

// Snapshot reports per-goal progress and retirement savings as of year.
// Goal balances grow linearly here, and the retirement portion deducts every
// goal's contribution regardless of whether it has completed by year.
func Snapshot(p model.Params, goals []model.Goal, year, currentYear int) (model.Snapshot, error) {
	if year < currentYear || year > p.RetirementYear {
		return model.Snapshot{}, newError("snapshot", ErrInvalidTimeframe, "year",
			"year %d is outside %d-%d", year, currentYear, p.RetirementYear)
	}

	monthsElapsed := (year - currentYear) * 12
	snap := model.Snapshot{
		Year:          year,
		MonthsElapsed: monthsElapsed,
		Goals:         make([]model.GoalProgress, 0, len(goals)),
	}

	remaining := p.MonthlySurplus()
	for _, g := range goals {
		snap.Goals = append(snap.Goals, GoalProgressAt(g, year, currentYear))
		remaining -= g.MonthlyContribution
	}

	snap.RetirementSavings = remaining * AnnuityFactor(MonthlyRate(p.RetirementRate), monthsElapsed)
	return snap, nil
}

// GoalProgressAt reports how much of g is saved as of year.
func GoalProgressAt(g model.Goal, year, currentYear int) model.GoalProgress {
	gp := model.GoalProgress{Name: g.Name, TargetAmount: g.TargetAmount}

	if year >= g.TargetYear {
		gp.SavedAmount = g.TargetAmount
		gp.PercentSaved = 100
		gp.Funded = true
		return gp
	}

	monthsElapsed := (year - currentYear) * 12
	if monthsElapsed < 0 {
		monthsElapsed = 0
	}
	saved := g.MonthlyContribution * float64(monthsElapsed)
	if saved > g.TargetAmount {
		saved = g.TargetAmount
	}
	gp.SavedAmount = saved
	if g.TargetAmount > 0 {
		gp.PercentSaved = saved / g.TargetAmount * 100
	}
	return gp
}
