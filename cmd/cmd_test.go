package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/pflag"
)

func useTempDB(t *testing.T, year int) {
	t.Helper()
	oldDB, oldYear, oldQuiet := flagDB, flagCurrentYear, flagQuiet
	flagDB = filepath.Join(t.TempDir(), "session.db")
	flagCurrentYear = year
	flagQuiet = true
	t.Cleanup(func() {
		flagDB, flagCurrentYear, flagQuiet = oldDB, oldYear, oldQuiet
	})
}

func TestWithSessionPersistsMutations(t *testing.T) {
	useTempDB(t, 2025)

	err := withSession(true, func(sess *session.PlanningSession) error {
		_, err := sess.AddGoal(planner.ByYear("Car", 6000, 0, 2030))
		return err
	})
	if err != nil {
		t.Fatalf("withSession(add): %v", err)
	}

	// A later run with another year keeps the session's own year.
	flagCurrentYear = 2027
	err = withSession(false, func(sess *session.PlanningSession) error {
		if sess.CurrentYear() != 2025 {
			t.Fatalf("CurrentYear = %d, want 2025", sess.CurrentYear())
		}
		if goals := sess.Goals(); len(goals) != 1 || goals[0].MonthlyContribution != 100 {
			t.Fatalf("goals = %+v, want Car at 100/mo", goals)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withSession(read): %v", err)
	}
}

func TestWithSessionFailedMutationNotSaved(t *testing.T) {
	useTempDB(t, 2025)

	boom := errors.New("boom")
	err := withSession(true, func(sess *session.PlanningSession) error {
		if _, err := sess.AddGoal(planner.ByYear("Car", 6000, 0, 2030)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	err = withSession(false, func(sess *session.PlanningSession) error {
		if n := len(sess.Goals()); n != 0 {
			t.Fatalf("goals = %d, want 0", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withSession(read): %v", err)
	}
}

func TestNewSessionUsesConfigDefaults(t *testing.T) {
	useTempDB(t, 2030)
	old := appConfig
	t.Cleanup(func() { appConfig = old })
	appConfig = config.DefaultConfig()
	appConfig.Defaults.MonthlyIncome = 9000
	appConfig.Defaults.MonthlyExpenses = 6000

	err := withSession(false, func(sess *session.PlanningSession) error {
		p := sess.Params()
		if p.RetirementYear != 2060 || p.MonthlySurplus() != 3000 {
			t.Fatalf("params = %+v, want retirement 2060 and 3000 surplus", p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withSession: %v", err)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := newSetupValues(cfg, 2026)
	v.offset = "25"
	v.income = "$10,000"
	v.expenses = "7000"
	v.retireRate = "growth"
	v.theme = "tokyo-night"
	v.pinYear = true

	got, err := v.apply(cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Defaults.RetirementYearOffset != 25 || got.Defaults.MonthlyIncome != 10000 {
		t.Fatalf("defaults = %+v", got.Defaults)
	}
	if got.Defaults.RetirementRate != 8 {
		t.Fatalf("RetirementRate = %v, want 8", got.Defaults.RetirementRate)
	}
	if got.General.CurrentYear != 2026 || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("general = %+v, appearance = %+v", got.General, got.Appearance)
	}

	v.offset = "0"
	if _, err := v.apply(cfg); err == nil {
		t.Fatal("expected error for zero offset")
	}
	v.offset = "25"
	v.theme = "neon"
	if _, err := v.apply(cfg); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestTotalContributions(t *testing.T) {
	goals := []model.Goal{
		{Name: "A", TargetYear: 2026, MonthlyContribution: 100},
		{Name: "B", TargetYear: 2030, MonthlyContribution: 50},
	}
	tests := []struct {
		year int
		want float64
	}{
		{2025, 150},
		{2026, 150},
		{2027, 50},
		{2031, 0},
	}
	for _, tt := range tests {
		if got := totalContributions(goals, tt.year); got != tt.want {
			t.Errorf("totalContributions(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestAnyParamsFlagChanged(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--debug"}, false},
		{[]string{"--debug", "--current-year", "2027"}, false},
		{[]string{"--income", "9000"}, true},
		{[]string{"--debug", "--rate", "balanced"}, true},
	}
	for _, tt := range tests {
		flags := pflag.NewFlagSet("params set", pflag.ContinueOnError)
		flags.Bool("debug", false, "")
		flags.Int("current-year", 0, "")
		flags.Int("retirement-year", 0, "")
		flags.String("income", "", "")
		flags.String("expenses", "", "")
		flags.String("rate", "", "")
		if err := flags.Parse(tt.args); err != nil {
			t.Fatalf("Parse(%v): %v", tt.args, err)
		}
		if got := anyParamsFlagChanged(flags); got != tt.want {
			t.Errorf("anyParamsFlagChanged(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
