package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/planner"
)

const thisYear = 2026

func newSession(t *testing.T) *PlanningSession {
	t.Helper()
	params := model.Params{
		RetirementYear:  thisYear + 2,
		MonthlyIncome:   6000,
		MonthlyExpenses: 4000,
	}
	return New("test", params, thisYear)
}

func TestNew_NoGoalsProjects72000(t *testing.T) {
	s := newSession(t)
	if got := s.NetWorth(); got != 72000 {
		t.Fatalf("NetWorth() = %v, want 72000", got)
	}
	if len(s.Goals()) != 0 {
		t.Fatalf("Goals() = %v, want empty", s.Goals())
	}
}

func TestAddGoal_AppendsInOrder(t *testing.T) {
	s := newSession(t)
	for _, name := range []string{"car", "house", "trip"} {
		if _, err := s.AddGoal(planner.ByContribution(name, 1200, 0, 100)); err != nil {
			t.Fatalf("AddGoal(%s): %v", name, err)
		}
	}
	goals := s.Goals()
	if len(goals) != 3 {
		t.Fatalf("len(Goals()) = %d, want 3", len(goals))
	}
	for i, want := range []string{"car", "house", "trip"} {
		if goals[i].Name != want {
			t.Errorf("goals[%d].Name = %q, want %q", i, goals[i].Name, want)
		}
	}
}

func TestAddGoal_SolvesWithSessionYear(t *testing.T) {
	s := newSession(t)
	g, err := s.AddGoal(planner.ByContribution("bike", 12000, 0, 1000))
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if g.TargetYear != thisYear+1 {
		t.Errorf("TargetYear = %d, want %d", g.TargetYear, thisYear+1)
	}
}

func TestAddGoal_RejectsDuplicateName(t *testing.T) {
	s := newSession(t)
	if _, err := s.AddGoal(planner.ByYear("house", 50000, 0, thisYear+2)); err != nil {
		t.Fatalf("first AddGoal: %v", err)
	}
	before := s.NetWorth()

	_, err := s.AddGoal(planner.ByYear("house", 90000, 0, thisYear+2))
	if !errors.Is(err, ErrDuplicateGoal) {
		t.Fatalf("err = %v, want ErrDuplicateGoal", err)
	}
	if !errors.Is(err, planner.ErrInvalidInput) {
		t.Fatalf("err = %v, want to match ErrInvalidInput", err)
	}
	if len(s.Goals()) != 1 {
		t.Fatalf("len(Goals()) = %d, want 1", len(s.Goals()))
	}
	if got := s.NetWorth(); got != before {
		t.Fatalf("NetWorth() changed to %v after rejected add, want %v", got, before)
	}
}

func TestAddGoal_ErrorLeavesStateUntouched(t *testing.T) {
	s := newSession(t)
	cases := []struct {
		name string
		req  planner.GoalRequest
		kind error
	}{
		{"past year", planner.ByYear("old", 1000, 5, thisYear), planner.ErrInvalidTimeframe},
		{"zero contribution", planner.ByContribution("never", 1000, 5, 0), planner.ErrUnreachableGoal},
		{"empty name", planner.ByContribution("  ", 1000, 5, 10), planner.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddGoal(tc.req)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("err = %v, want %v", err, tc.kind)
			}
			if len(s.Goals()) != 0 {
				t.Fatalf("goal list mutated: %v", s.Goals())
			}
		})
	}
}

func TestRemoveGoal(t *testing.T) {
	s := newSession(t)
	if _, err := s.AddGoal(planner.ByYear("car", 24000, 0, thisYear+2)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if _, err := s.AddGoal(planner.ByYear("trip", 6000, 0, thisYear+1)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	if err := s.RemoveGoal("car"); err != nil {
		t.Fatalf("RemoveGoal: %v", err)
	}
	goals := s.Goals()
	if len(goals) != 1 || goals[0].Name != "trip" {
		t.Fatalf("Goals() = %+v, want only trip", goals)
	}

	err := s.RemoveGoal("car")
	if !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("second RemoveGoal err = %v, want ErrGoalNotFound", err)
	}
}

func TestRemoveGoal_RestoresNetWorth(t *testing.T) {
	s := newSession(t)
	base := s.NetWorth()
	if _, err := s.AddGoal(planner.ByYear("car", 24000, 0, thisYear+2)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if s.NetWorth() >= base {
		t.Fatalf("goal did not reduce net worth: %v >= %v", s.NetWorth(), base)
	}
	if err := s.RemoveGoal("car"); err != nil {
		t.Fatalf("RemoveGoal: %v", err)
	}
	if got := s.NetWorth(); got != base {
		t.Fatalf("NetWorth() = %v after remove, want %v", got, base)
	}
}

func TestGoals_ReturnsCopy(t *testing.T) {
	s := newSession(t)
	if _, err := s.AddGoal(planner.ByYear("car", 24000, 0, thisYear+2)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	goals := s.Goals()
	goals[0].MonthlyContribution = 0
	if s.Goals()[0].MonthlyContribution == 0 {
		t.Fatal("mutating Goals() result changed session state")
	}
}

func TestSetParams(t *testing.T) {
	s := newSession(t)

	bad := s.Params()
	bad.RetirementYear = thisYear
	if err := s.SetParams(bad); !errors.Is(err, planner.ErrInvalidTimeframe) {
		t.Fatalf("SetParams(retire now) err = %v, want ErrInvalidTimeframe", err)
	}

	bad = s.Params()
	bad.MonthlyExpenses = -1
	if err := s.SetParams(bad); !errors.Is(err, planner.ErrInvalidInput) {
		t.Fatalf("SetParams(negative expenses) err = %v, want ErrInvalidInput", err)
	}
	if s.Params().MonthlyExpenses != 4000 {
		t.Fatalf("rejected SetParams changed expenses to %v", s.Params().MonthlyExpenses)
	}

	good := s.Params()
	good.RetirementYear = thisYear + 4
	if err := s.SetParams(good); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	if got := s.NetWorth(); got != 2000*12*5 {
		t.Fatalf("NetWorth() = %v, want %v", got, 2000*12*5)
	}
}

func TestSnapshotAndTimeline(t *testing.T) {
	s := newSession(t)
	if _, err := s.AddGoal(planner.ByContribution("bike", 12000, 0, 1000)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	snap, err := s.Snapshot(thisYear)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	gp, ok := snap.Goal("bike")
	if !ok || gp.SavedAmount != 0 {
		t.Fatalf("bike progress = %+v (ok=%v), want saved 0", gp, ok)
	}

	if _, err := s.Snapshot(thisYear + 10); !errors.Is(err, planner.ErrInvalidTimeframe) {
		t.Fatalf("Snapshot(out of range) err = %v, want ErrInvalidTimeframe", err)
	}

	points := s.Timeline()
	if len(points) != 3 {
		t.Fatalf("len(Timeline()) = %d, want 3", len(points))
	}
	if points[0].Kind != model.TimelineToday || points[2].Kind != model.TimelineRetirement {
		t.Fatalf("timeline kinds = %v, %v", points[0].Kind, points[2].Kind)
	}
}

func TestStateRestoreRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New("abc", model.Params{RetirementYear: thisYear + 3, MonthlyIncome: 5000, MonthlyExpenses: 3000},
		thisYear, WithClock(func() time.Time { return created }))
	if _, err := s.AddGoal(planner.ByYear("car", 24000, 4, thisYear+2)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	st := s.State()
	r := Restore(st)
	if r.CurrentYear() != thisYear {
		t.Errorf("CurrentYear() = %d, want %d", r.CurrentYear(), thisYear)
	}
	if r.ID() != "abc" {
		t.Errorf("ID() = %q, want abc", r.ID())
	}
	if got := r.State().CreatedAt; !got.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got, created)
	}
	if r.NetWorth() != s.NetWorth() {
		t.Errorf("restored NetWorth = %v, want %v", r.NetWorth(), s.NetWorth())
	}
	if len(r.Goals()) != 1 || r.Goals()[0] != s.Goals()[0] {
		t.Errorf("restored goals = %+v, want %+v", r.Goals(), s.Goals())
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	s := newSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			if _, err := s.AddGoal(planner.ByContribution(name, 1200, 0, 100)); err != nil {
				t.Errorf("AddGoal(%s): %v", name, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = s.NetWorth()
			_ = s.Schedule()
		}()
	}
	wg.Wait()
	if len(s.Goals()) != 8 {
		t.Fatalf("len(Goals()) = %d, want 8", len(s.Goals()))
	}
}

func TestUpdateParams_ConcurrentPartialUpdates(t *testing.T) {
	s := newSession(t)
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.UpdateParams(func(p *model.Params) { p.MonthlyIncome++ }); err != nil {
				t.Errorf("UpdateParams(income): %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.UpdateParams(func(p *model.Params) { p.MonthlyExpenses++ }); err != nil {
				t.Errorf("UpdateParams(expenses): %v", err)
			}
		}()
	}
	wg.Wait()

	p := s.Params()
	if p.MonthlyIncome != 6000+n || p.MonthlyExpenses != 4000+n {
		t.Fatalf("params = %+v, want income %d and expenses %d", p, 6000+n, 4000+n)
	}
}

func TestUpdateParams_RejectedLeavesParams(t *testing.T) {
	s := newSession(t)
	before := s.Params()

	got, err := s.UpdateParams(func(p *model.Params) {
		p.MonthlyIncome = 9000
		p.RetirementRate = 150
	})
	if !errors.Is(err, planner.ErrInvalidInput) {
		t.Fatalf("UpdateParams err = %v, want ErrInvalidInput", err)
	}
	if got != before || s.Params() != before {
		t.Fatalf("params changed to %+v after rejected update, want %+v", s.Params(), before)
	}
}
