// Package scenario reads and writes YAML files describing a whole plan:
// the global parameters and every goal as the user specified it.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/session"

	"gopkg.in/yaml.v3"
)

// File is the on-disk scenario layout.
type File struct {
	CurrentYear int    `yaml:"current_year,omitempty"`
	Params      Params `yaml:"params"`
	Goals       []Goal `yaml:"goals,omitempty"`
}

// Params mirrors model.Params with YAML names.
type Params struct {
	RetirementYear  int     `yaml:"retirement_year"`
	MonthlyIncome   float64 `yaml:"monthly_income"`
	MonthlyExpenses float64 `yaml:"monthly_expenses"`
	RetirementRate  float64 `yaml:"retirement_rate"`
}

// Goal holds exactly one of Year or Contribution.
type Goal struct {
	Name         string   `yaml:"name"`
	Amount       float64  `yaml:"amount"`
	Rate         float64  `yaml:"rate"`
	Year         *int     `yaml:"year,omitempty"`
	Contribution *float64 `yaml:"contribution,omitempty"`
}

// Load reads a scenario file from disk.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("parsing scenario: empty document")
		}
		return File{}, fmt.Errorf("parsing scenario: %w", err)
	}
	return f, nil
}

// Build validates the scenario and replays every goal through the solver.
// A current_year in the file takes precedence over currentYear.
func (f File) Build(id string, currentYear int, opts ...session.Option) (*session.PlanningSession, error) {
	if f.CurrentYear != 0 {
		currentYear = f.CurrentYear
	}

	params := model.Params{
		RetirementYear:  f.Params.RetirementYear,
		MonthlyIncome:   f.Params.MonthlyIncome,
		MonthlyExpenses: f.Params.MonthlyExpenses,
		RetirementRate:  f.Params.RetirementRate,
	}
	if err := planner.ValidateParams(params, currentYear); err != nil {
		return nil, fmt.Errorf("scenario params: %w", err)
	}

	ps := session.New(id, params, currentYear, opts...)
	for i, g := range f.Goals {
		req := planner.GoalRequest{
			Name:                g.Name,
			TargetAmount:        g.Amount,
			AnnualRate:          g.Rate,
			TargetYear:          g.Year,
			MonthlyContribution: g.Contribution,
		}
		if _, err := ps.AddGoal(req); err != nil {
			return nil, fmt.Errorf("scenario goal %d (%q): %w", i+1, g.Name, err)
		}
	}
	return ps, nil
}

// FromState captures a session as a scenario, keeping the half of each goal
// the user supplied so that Build re-derives the other half.
func FromState(st session.State) File {
	f := File{
		CurrentYear: st.CurrentYear,
		Params: Params{
			RetirementYear:  st.Params.RetirementYear,
			MonthlyIncome:   st.Params.MonthlyIncome,
			MonthlyExpenses: st.Params.MonthlyExpenses,
			RetirementRate:  st.Params.RetirementRate,
		},
	}
	for _, g := range st.Goals {
		sg := Goal{Name: g.Name, Amount: g.TargetAmount, Rate: g.AnnualRate}
		if g.SolvedFor == model.SolvedForYear {
			c := g.MonthlyContribution
			sg.Contribution = &c
		} else {
			y := g.TargetYear
			sg.Year = &y
		}
		f.Goals = append(f.Goals, sg)
	}
	return f
}

// Export writes the session as a scenario document.
func Export(ps *session.PlanningSession, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromState(ps.State())); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return enc.Close()
}

// Save writes the session to path.
func Save(ps *session.PlanningSession, path string) error {
	var buf bytes.Buffer
	if err := Export(ps, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}
