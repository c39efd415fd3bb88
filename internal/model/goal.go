// Package model defines domain types for nestegg plans, goals and projections.
package model

// SolvedFor records which half of a goal was derived by the solver.
type SolvedFor string

const (
	// SolvedForYear means the user supplied the monthly contribution.
	SolvedForYear SolvedFor = "year"
	// SolvedForContribution means the user supplied the target year.
	SolvedForContribution SolvedFor = "contribution"
)

// Goal is a named, time-bound savings target with its own contribution and rate.
// Goals are immutable once the solver has produced them.
type Goal struct {
	Name                string
	TargetAmount        float64
	TargetYear          int
	MonthlyContribution float64
	AnnualRate          float64 // percent, 0-100

	SolvedFor   SolvedFor
	CreatedYear int
}

// ActiveIn reports whether the goal still draws its contribution in year.
// The target year itself is inclusive.
func (g Goal) ActiveIn(year int) bool {
	return year <= g.TargetYear
}

// Params holds the global scalar inputs of a planning session.
type Params struct {
	RetirementYear  int
	MonthlyIncome   float64
	MonthlyExpenses float64
	RetirementRate  float64 // percent, 0-100
}

// MonthlySurplus is income minus expenses before any goal contributions.
func (p Params) MonthlySurplus() float64 {
	return p.MonthlyIncome - p.MonthlyExpenses
}
