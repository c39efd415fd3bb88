// Package session holds the mutable state of one planning session: the
// global parameters and the ordered goal list.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/planner"

	"go.uber.org/zap"
)

// ErrGoalNotFound is returned when removing a goal that is not in the session.
var ErrGoalNotFound = errors.New("goal not found")

// ErrDuplicateGoal is returned when a goal name is already taken. It also
// matches planner.ErrInvalidInput.
var ErrDuplicateGoal = fmt.Errorf("%w: duplicate goal name", planner.ErrInvalidInput)

// State is a copy of everything a session holds, used for persistence.
type State struct {
	ID          string
	CurrentYear int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Params      model.Params
	Goals       []model.Goal
}

// PlanningSession guards params and goals with a single mutex. Readers copy
// under the read lock, so engine calls never observe a half-applied mutation.
type PlanningSession struct {
	mu          sync.RWMutex
	id          string
	createdAt   time.Time
	updatedAt   time.Time
	params      model.Params
	goals       []model.Goal
	currentYear int
	now         func() time.Time
	log         *zap.Logger
}

// Option configures a PlanningSession.
type Option func(*PlanningSession)

// WithLogger attaches a logger for mutation events.
func WithLogger(l *zap.Logger) Option {
	return func(s *PlanningSession) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *PlanningSession) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty session. params are taken as-is; use SetParams for
// validated updates.
func New(id string, params model.Params, currentYear int, opts ...Option) *PlanningSession {
	s := &PlanningSession{
		id:          id,
		params:      params,
		currentYear: currentYear,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now().UTC()
	s.updatedAt = s.createdAt
	return s
}

// Restore rebuilds a session from persisted state without re-solving goals.
// The session keeps the year its goals were solved against.
func Restore(st State, opts ...Option) *PlanningSession {
	s := New(st.ID, st.Params, st.CurrentYear, opts...)
	if !st.CreatedAt.IsZero() {
		s.createdAt = st.CreatedAt
	}
	if !st.UpdatedAt.IsZero() {
		s.updatedAt = st.UpdatedAt
	}
	s.goals = append([]model.Goal(nil), st.Goals...)
	return s
}

// ID returns the session identifier.
func (s *PlanningSession) ID() string {
	return s.id
}

// CurrentYear returns the year every computation treats as "now".
func (s *PlanningSession) CurrentYear() int {
	return s.currentYear
}

// State returns a deep copy of the session contents.
func (s *PlanningSession) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		ID:          s.id,
		CurrentYear: s.currentYear,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
		Params:      s.params,
		Goals:       append([]model.Goal(nil), s.goals...),
	}
}

// Params returns the current global parameters.
func (s *PlanningSession) Params() model.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetParams validates and replaces the global parameters. Existing goals keep
// their contributions.
func (s *PlanningSession) SetParams(p model.Params) error {
	_, err := s.UpdateParams(func(cur *model.Params) { *cur = p })
	return err
}

// UpdateParams applies fn to a copy of the current parameters and stores the
// result if it validates. Read, change and validate happen under one write
// lock, so concurrent partial updates never drop each other's fields.
func (s *PlanningSession) UpdateParams(fn func(*model.Params)) (model.Params, error) {
	s.mu.Lock()
	p := s.params
	fn(&p)
	if err := planner.ValidateParams(p, s.currentYear); err != nil {
		prev := s.params
		s.mu.Unlock()
		s.log.Debug("params rejected", zap.Error(err))
		return prev, err
	}
	s.params = p
	s.touch()
	s.mu.Unlock()

	s.log.Info("params updated",
		zap.Int("retirement_year", p.RetirementYear),
		zap.Float64("monthly_income", p.MonthlyIncome),
		zap.Float64("monthly_expenses", p.MonthlyExpenses),
		zap.Float64("retirement_rate", p.RetirementRate))
	return p, nil
}

// Goals returns a copy of the goal list in insertion order.
func (s *PlanningSession) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Goal(nil), s.goals...)
}

// AddGoal solves req and appends the resulting goal. On any error the
// session is left unchanged.
func (s *PlanningSession) AddGoal(req planner.GoalRequest) (model.Goal, error) {
	goal, err := planner.SolveGoal(req, s.currentYear)
	if err != nil {
		s.log.Debug("goal rejected", zap.String("name", req.Name), zap.Error(err))
		return model.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(goal.Name) >= 0 {
		return model.Goal{}, fmt.Errorf("add goal %q: %w", goal.Name, ErrDuplicateGoal)
	}
	s.goals = append(s.goals, goal)
	s.touch()

	s.log.Info("goal added",
		zap.String("name", goal.Name),
		zap.Int("target_year", goal.TargetYear),
		zap.Float64("monthly_contribution", goal.MonthlyContribution),
		zap.String("solved_for", string(goal.SolvedFor)))
	return goal, nil
}

// RemoveGoal deletes the first goal whose name matches.
func (s *PlanningSession) RemoveGoal(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("remove goal %q: %w", name, ErrGoalNotFound)
	}
	s.goals = append(s.goals[:idx:idx], s.goals[idx+1:]...)
	s.touch()

	s.log.Info("goal removed", zap.String("name", name))
	return nil
}

// NetWorth projects the retirement balance at the retirement year.
func (s *PlanningSession) NetWorth() float64 {
	p, goals := s.read()
	return planner.ProjectRetirementNetWorth(p, goals, s.currentYear)
}

// Schedule returns the year-by-year projection rows.
func (s *PlanningSession) Schedule() []model.YearProjection {
	p, goals := s.read()
	return planner.ProjectSchedule(p, goals, s.currentYear)
}

// Snapshot reports goal and retirement progress as of year.
func (s *PlanningSession) Snapshot(year int) (model.Snapshot, error) {
	p, goals := s.read()
	return planner.Snapshot(p, goals, year, s.currentYear)
}

// Timeline returns the chronological chart points for the plan.
func (s *PlanningSession) Timeline() []model.TimelinePoint {
	p, goals := s.read()
	netWorth := planner.ProjectRetirementNetWorth(p, goals, s.currentYear)
	return planner.Timeline(p, goals, netWorth, s.currentYear)
}

func (s *PlanningSession) read() (model.Params, []model.Goal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params, append([]model.Goal(nil), s.goals...)
}

// indexOf must be called with s.mu held.
func (s *PlanningSession) indexOf(name string) int {
	for i, g := range s.goals {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// touch must be called with s.mu held for writing.
func (s *PlanningSession) touch() {
	s.updatedAt = s.now().UTC()
}
