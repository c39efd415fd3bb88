package planner

import (
	"math"

	"github.com/theirongolddev/nestegg/internal/model"
)

// ValidateParams checks the global inputs of a plan against currentYear.
func ValidateParams(p model.Params, currentYear int) error {
	const op = "set params"

	if p.RetirementYear <= currentYear {
		return newError(op, ErrInvalidTimeframe, "retirement_year",
			"retirement year %d must be after %d", p.RetirementYear, currentYear)
	}
	if !finite(p.MonthlyIncome) || p.MonthlyIncome < 0 {
		return newError(op, ErrInvalidInput, "monthly_income", "must be zero or more, got %v", p.MonthlyIncome)
	}
	if !finite(p.MonthlyExpenses) || p.MonthlyExpenses < 0 {
		return newError(op, ErrInvalidInput, "monthly_expenses", "must be zero or more, got %v", p.MonthlyExpenses)
	}
	return checkRate(op, "retirement_rate", p.RetirementRate)
}

// AnnuityFactor is the future value of one unit contributed at the end of
// each of periods months at monthly rate r. A non-positive rate degenerates
// to a plain count.
func AnnuityFactor(r float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if r > 0 {
		return (math.Pow(1+r, float64(periods)) - 1) / r
	}
	return float64(periods)
}

// ProjectSchedule simulates each year from currentYear through the retirement
// year inclusive. A goal's contribution is withheld up to and including its
// target year and flows back into retirement afterwards. Each year's twelve
// contributions grow within that year; earlier years' totals are carried
// forward as-is.
func ProjectSchedule(p model.Params, goals []model.Goal, currentYear int) []model.YearProjection {
	if p.RetirementYear < currentYear {
		return nil
	}

	m := MonthlyRate(p.RetirementRate)
	yearFactor := AnnuityFactor(m, 12)

	rows := make([]model.YearProjection, 0, p.RetirementYear-currentYear+1)
	balance := 0.0
	for year := currentYear; year <= p.RetirementYear; year++ {
		available := p.MonthlySurplus()
		active := 0
		for _, g := range goals {
			if g.ActiveIn(year) {
				available -= g.MonthlyContribution
				active++
			}
		}

		contribution := available * yearFactor
		balance += contribution

		rows = append(rows, model.YearProjection{
			Year:         year,
			Available:    available,
			Contribution: contribution,
			Balance:      balance,
			ActiveGoals:  active,
		})
	}
	return rows
}

// ProjectRetirementNetWorth returns the estimated retirement balance at the
// retirement year. Negative cash flow is allowed and reduces the balance.
func ProjectRetirementNetWorth(p model.Params, goals []model.Goal, currentYear int) float64 {
	rows := ProjectSchedule(p, goals, currentYear)
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Balance
}
