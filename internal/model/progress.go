package model

// GoalProgress holds how far a single goal has been funded as of a snapshot year.
type GoalProgress struct {
	Name         string
	TargetAmount float64
	SavedAmount  float64
	PercentSaved float64 // 0-100
	Funded       bool
}
