// Package planner implements the goal solver, the retirement projection
// engine and the snapshot calculator. Every function is pure: the current
// year is passed in and inputs are never mutated.
package planner

import (
	"math"
	"strings"

	"github.com/theirongolddev/nestegg/internal/model"
)

// maxHorizonMonths bounds how far out a contribution-based goal may land.
const maxHorizonMonths = 200 * 12

// ceilEpsilon absorbs float noise before taking a ceiling, so that a goal
// which lands exactly on a month boundary is not pushed one month later.
const ceilEpsilon = 1e-9

// GoalRequest is the user-supplied half of a goal. Exactly one of TargetYear
// and MonthlyContribution must be set.
type GoalRequest struct {
	Name                string
	TargetAmount        float64
	AnnualRate          float64
	TargetYear          *int
	MonthlyContribution *float64
}

// ByYear builds a request that asks the solver for the monthly contribution.
func ByYear(name string, amount, rate float64, year int) GoalRequest {
	return GoalRequest{Name: name, TargetAmount: amount, AnnualRate: rate, TargetYear: &year}
}

// ByContribution builds a request that asks the solver for the target year.
func ByContribution(name string, amount, rate, contribution float64) GoalRequest {
	return GoalRequest{Name: name, TargetAmount: amount, AnnualRate: rate, MonthlyContribution: &contribution}
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / 100 / 12
}

// SolveGoal derives the missing half of a goal and returns the immutable result.
func SolveGoal(req GoalRequest, currentYear int) (model.Goal, error) {
	const op = "solve goal"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Goal{}, newError(op, ErrInvalidInput, "name", "goal name is required")
	}
	if !finite(req.TargetAmount) || req.TargetAmount <= 0 {
		return model.Goal{}, newError(op, ErrInvalidInput, "target_amount", "must be greater than zero, got %v", req.TargetAmount)
	}
	if err := checkRate(op, "annual_rate", req.AnnualRate); err != nil {
		return model.Goal{}, err
	}

	switch {
	case req.TargetYear != nil && req.MonthlyContribution != nil:
		return model.Goal{}, newError(op, ErrInvalidInput, "", "give either a target year or a monthly contribution, not both")
	case req.TargetYear == nil && req.MonthlyContribution == nil:
		return model.Goal{}, newError(op, ErrInvalidInput, "", "a target year or a monthly contribution is required")
	}

	r := MonthlyRate(req.AnnualRate)
	goal := model.Goal{
		Name:         name,
		TargetAmount: req.TargetAmount,
		AnnualRate:   req.AnnualRate,
		CreatedYear:  currentYear,
	}

	if req.MonthlyContribution != nil {
		c := *req.MonthlyContribution
		if !finite(c) {
			return model.Goal{}, newError(op, ErrInvalidInput, "monthly_contribution", "must be a finite amount")
		}
		if c <= 0 {
			return model.Goal{}, newError(op, ErrUnreachableGoal, "monthly_contribution",
				"a contribution of %v never reaches %v", c, req.TargetAmount)
		}
		months, ok := MonthsToTarget(req.TargetAmount, c, r)
		if !ok {
			return model.Goal{}, newError(op, ErrUnreachableGoal, "monthly_contribution",
				"reaching %v at %v/month takes more than %d years", req.TargetAmount, c, maxHorizonMonths/12)
		}
		goal.MonthlyContribution = c
		goal.TargetYear = currentYear + ceilDiv(months, 12)
		goal.SolvedFor = model.SolvedForYear
		return goal, nil
	}

	year := *req.TargetYear
	months := 12 * (year - currentYear)
	if months <= 0 {
		return model.Goal{}, newError(op, ErrInvalidTimeframe, "target_year",
			"target year %d must be after %d", year, currentYear)
	}
	goal.TargetYear = year
	goal.MonthlyContribution = RequiredContribution(req.TargetAmount, r, months)
	goal.SolvedFor = model.SolvedForContribution
	return goal, nil
}

// MonthsToTarget returns how many monthly contributions of c at monthly rate r
// are needed to accumulate amount. At r == 0 the count is truncated, not
// rounded up. ok is false when the horizon is unbounded.
func MonthsToTarget(amount, c, r float64) (months int, ok bool) {
	if c <= 0 {
		return 0, amount <= 0
	}

	var n float64
	if r == 0 {
		n = math.Floor(amount / c)
	} else {
		n = math.Ceil(math.Log(1+amount*r/c)/math.Log(1+r) - ceilEpsilon)
	}
	if !finite(n) || n > maxHorizonMonths {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	return int(n), true
}

// RequiredContribution returns the level monthly payment that grows to amount
// over months at monthly rate r. months must be positive.
func RequiredContribution(amount, r float64, months int) float64 {
	if months <= 0 {
		return amount
	}
	if r > 0 {
		return amount * r / (math.Pow(1+r, float64(months)) - 1)
	}
	return amount / float64(months)
}

func checkRate(op, field string, rate float64) error {
	if !finite(rate) || rate < 0 || rate > 100 {
		return newError(op, ErrInvalidInput, field, "rate must be between 0 and 100 percent, got %v", rate)
	}
	return nil
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
