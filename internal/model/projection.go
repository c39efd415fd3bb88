package model

// YearProjection is one row of the year-by-year retirement projection.
type YearProjection struct {
	Year         int
	Available    float64 // monthly amount flowing into retirement this year
	Contribution float64 // this year's 12 contributions, grown within the year
	Balance      float64 // running retirement balance after this year
	ActiveGoals  int
}

// Snapshot is a point-in-time view of goal and retirement progress.
type Snapshot struct {
	Year              int
	MonthsElapsed     int
	Goals             []GoalProgress
	RetirementSavings float64
}

// Goal returns the progress entry for the named goal.
func (s Snapshot) Goal(name string) (GoalProgress, bool) {
	for _, g := range s.Goals {
		if g.Name == name {
			return g, true
		}
	}
	return GoalProgress{}, false
}

// TimelineKind classifies a timeline point.
type TimelineKind int

const (
	TimelineToday TimelineKind = iota
	TimelineGoal
	TimelineRetirement
)

func (k TimelineKind) String() string {
	switch k {
	case TimelineToday:
		return "today"
	case TimelineGoal:
		return "goal"
	case TimelineRetirement:
		return "retirement"
	default:
		return "unknown"
	}
}

// TimelinePoint is one labelled marker on the chronological plan chart.
type TimelinePoint struct {
	Year   int
	Label  string
	Detail string
	Kind   TimelineKind
}
