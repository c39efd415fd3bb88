package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/session"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "session.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSession(t *testing.T) *session.PlanningSession {
	t.Helper()
	ps := session.New(NewID(), model.Params{
		RetirementYear:  2050,
		MonthlyIncome:   8123.45,
		MonthlyExpenses: 5000.1,
		RetirementRate:  6.5,
	}, 2026)
	if _, err := ps.AddGoal(planner.ByYear("house", 60000, 4.25, 2031)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if _, err := ps.AddGoal(planner.ByContribution("car", 18000, 3, 333.33)); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	return ps
}

func TestLoadActive_Empty(t *testing.T) {
	s := openTemp(t)
	if _, err := s.LoadActive(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("LoadActive() err = %v, want ErrNoSession", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTemp(t)
	want := sampleSession(t).State()

	if err := s.SaveSession(want); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, err := s.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}

	if got.ID != want.ID || got.CurrentYear != want.CurrentYear {
		t.Fatalf("loaded id/year = %s/%d, want %s/%d", got.ID, got.CurrentYear, want.ID, want.CurrentYear)
	}
	if got.Params != want.Params {
		t.Fatalf("Params = %+v, want %+v", got.Params, want.Params)
	}
	if len(got.Goals) != len(want.Goals) {
		t.Fatalf("len(Goals) = %d, want %d", len(got.Goals), len(want.Goals))
	}
	for i := range want.Goals {
		if got.Goals[i] != want.Goals[i] {
			t.Errorf("Goals[%d] = %+v, want %+v", i, got.Goals[i], want.Goals[i])
		}
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}

	restored := session.Restore(got)
	orig := session.Restore(want)
	if restored.NetWorth() != orig.NetWorth() {
		t.Errorf("restored NetWorth = %v, want %v", restored.NetWorth(), orig.NetWorth())
	}
}

func TestSaveSession_ReplacesGoals(t *testing.T) {
	s := openTemp(t)
	ps := sampleSession(t)
	if err := s.SaveSession(ps.State()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if err := ps.RemoveGoal("house"); err != nil {
		t.Fatalf("RemoveGoal: %v", err)
	}
	if err := s.SaveSession(ps.State()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	n, err := s.GoalCount(ps.ID())
	if err != nil {
		t.Fatalf("GoalCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("GoalCount = %d, want 1", n)
	}
	got, err := s.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if len(got.Goals) != 1 || got.Goals[0].Name != "car" {
		t.Fatalf("Goals = %+v, want only car", got.Goals)
	}
}

func TestLoadActive_MostRecent(t *testing.T) {
	s := openTemp(t)
	older := session.State{
		ID:          NewID(),
		CurrentYear: 2026,
		UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Params:      model.Params{RetirementYear: 2040},
	}
	newer := older
	newer.ID = NewID()
	newer.UpdatedAt = older.UpdatedAt.Add(time.Hour)

	for _, st := range []session.State{newer, older} {
		if err := s.SaveSession(st); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}
	got, err := s.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if got.ID != newer.ID {
		t.Fatalf("LoadActive ID = %s, want %s", got.ID, newer.ID)
	}
}

func TestDeleteSession(t *testing.T) {
	s := openTemp(t)
	ps := sampleSession(t)
	if err := s.SaveSession(ps.State()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := s.DeleteSession(ps.ID()); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if n, _ := s.GoalCount(ps.ID()); n != 0 {
		t.Fatalf("GoalCount after delete = %d, want 0", n)
	}
	if _, err := s.LoadActive(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("LoadActive after delete err = %v, want ErrNoSession", err)
	}
	if err := s.DeleteSession(ps.ID()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("second DeleteSession err = %v, want ErrNoSession", err)
	}
}

func TestSaveSession_RejectsBadID(t *testing.T) {
	s := openTemp(t)
	if err := s.SaveSession(session.State{ID: "not-a-uuid", CurrentYear: 2026}); err == nil {
		t.Fatal("SaveSession with invalid id succeeded")
	}
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got, want := DefaultPath(), filepath.Join("/tmp/xdg-cache", "nestegg", "session.db"); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestReplaceSession(t *testing.T) {
	s := openTemp(t)
	old := sampleSession(t)
	if err := s.SaveSession(old.State()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	next := session.New(NewID(), model.Params{RetirementYear: 2040, MonthlyIncome: 100}, 2026)
	if err := s.ReplaceSession(old.ID(), next.State()); err != nil {
		t.Fatalf("ReplaceSession: %v", err)
	}
	got, err := s.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if got.ID != next.ID() {
		t.Fatalf("active session = %s, want %s", got.ID, next.ID())
	}
	if n, _ := s.GoalCount(old.ID()); n != 0 {
		t.Fatalf("GoalCount(old) = %d, want 0", n)
	}
}

func TestReplaceSession_FailureKeepsOld(t *testing.T) {
	s := openTemp(t)
	old := sampleSession(t)
	if err := s.SaveSession(old.State()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// Two goals sharing a name violate the unique index mid-transaction.
	bad := session.New(NewID(), model.Params{RetirementYear: 2040}, 2026).State()
	goal := model.Goal{Name: "dup", TargetAmount: 100, TargetYear: 2030}
	bad.Goals = []model.Goal{goal, goal}

	if err := s.ReplaceSession(old.ID(), bad); err == nil {
		t.Fatal("ReplaceSession with duplicate goal names succeeded")
	}
	got, err := s.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if got.ID != old.ID() || len(got.Goals) != 2 {
		t.Fatalf("active = %s with %d goals, want old session with 2", got.ID, len(got.Goals))
	}
	if n, _ := s.GoalCount(bad.ID); n != 0 {
		t.Fatalf("GoalCount(new) = %d, want 0", n)
	}
}
