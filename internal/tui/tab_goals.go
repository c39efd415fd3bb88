package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/tui/components"
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	modeByYear         = "year"
	modeByContribution = "contribution"
)

// goalsState tracks the goals tab: list selection and the add-goal form.
type goalsState struct {
	cursor int
	form   *huh.Form
	vals   *goalFormValues
}

// goalFormValues is bound to the huh form fields. It lives behind a pointer
// so the bindings survive App being copied by value.
type goalFormValues struct {
	name         string
	amount       string
	rate         string
	mode         string
	year         string
	contribution string
}

func newGoalForm(cfg config.Config, currentYear int, vals *goalFormValues) *huh.Form {
	rateHint := "percent, or a preset: " + strings.Join(config.RateNames(cfg), ", ")

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal name").
				Value(&vals.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Target amount").
				Placeholder("25000").
				Value(&vals.amount).
				Validate(func(s string) error {
					_, err := money.Parse(s)
					return err
				}),
			huh.NewInput().
				Title("Annual rate").
				Description(rateHint).
				Value(&vals.rate).
				Validate(func(s string) error {
					_, err := config.ResolveRate(cfg, s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Solve for").
				Options(
					huh.NewOption("Monthly contribution (I know the year)", modeByYear),
					huh.NewOption("Target year (I know the contribution)", modeByContribution),
				).
				Value(&vals.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target year").
				Placeholder(strconv.Itoa(currentYear+5)).
				Value(&vals.year).
				Validate(func(s string) error {
					_, err := strconv.Atoi(strings.TrimSpace(s))
					return err
				}),
		).WithHideFunc(func() bool { return vals.mode != modeByYear }),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly contribution").
				Placeholder("500").
				Value(&vals.contribution).
				Validate(func(s string) error {
					_, err := money.Parse(s)
					return err
				}),
		).WithHideFunc(func() bool { return vals.mode != modeByContribution }),
	).WithTheme(huh.ThemeDracula())
}

// request converts the form values into a solver request.
func (v goalFormValues) request(cfg config.Config) (planner.GoalRequest, error) {
	amount, err := money.Parse(v.amount)
	if err != nil {
		return planner.GoalRequest{}, err
	}
	rate, err := config.ResolveRate(cfg, v.rate)
	if err != nil {
		return planner.GoalRequest{}, err
	}
	name := strings.TrimSpace(v.name)

	if v.mode == modeByContribution {
		c, err := money.Parse(v.contribution)
		if err != nil {
			return planner.GoalRequest{}, err
		}
		return planner.ByContribution(name, amount, rate, c), nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(v.year))
	if err != nil {
		return planner.GoalRequest{}, fmt.Errorf("target year: %w", err)
	}
	return planner.ByYear(name, amount, rate, year), nil
}

func (a App) formWidth() int {
	return min(max(a.contentWidth()-4, 40), 80)
}

func (a App) openGoalForm() (tea.Model, tea.Cmd) {
	vals := &goalFormValues{
		mode: modeByYear,
		rate: strconv.FormatFloat(a.cfg.Defaults.GoalRate, 'f', -1, 64),
	}
	a.goals.vals = vals
	a.goals.form = newGoalForm(a.cfg, a.sess.CurrentYear(), vals)
	if a.width > 0 {
		a.goals.form = a.goals.form.WithWidth(a.formWidth())
	}
	return a, a.goals.form.Init()
}

func (a App) updateGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.goals.form, a.goals.vals = nil, nil
		return a, nil
	}

	form, cmd := a.goals.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.goals.form = f
	}

	switch a.goals.form.State {
	case huh.StateCompleted:
		vals := *a.goals.vals
		a.goals.form, a.goals.vals = nil, nil
		a.submitGoal(vals)
		return a, nil
	case huh.StateAborted:
		a.goals.form, a.goals.vals = nil, nil
		return a, nil
	}
	return a, cmd
}

func (a *App) submitGoal(vals goalFormValues) {
	req, err := vals.request(a.cfg)
	if err != nil {
		a.setFlash("Invalid goal: "+err.Error(), true)
		return
	}
	goal, err := a.sess.AddGoal(req)
	if err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	a.goals.cursor = len(a.sess.Goals()) - 1
	a.persist(fmt.Sprintf("Added %s: %s/mo until %d", goal.Name,
		cli.FormatMoney(goal.MonthlyContribution), goal.TargetYear))
}

// updateGoalsKeys handles goals tab keys. ok is false when the key should
// fall through to the global bindings.
func (a App) updateGoalsKeys(key string) (tea.Model, tea.Cmd, bool) {
	goals := a.sess.Goals()
	switch key {
	case "j", "down":
		if a.goals.cursor < len(goals)-1 {
			a.goals.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.goals.cursor > 0 {
			a.goals.cursor--
		}
		return a, nil, true
	case "a", "n":
		m, cmd := a.openGoalForm()
		return m, cmd, true
	case "d", "delete":
		if len(goals) == 0 {
			return a, nil, true
		}
		name := goals[min(a.goals.cursor, len(goals)-1)].Name
		if err := a.sess.RemoveGoal(name); err != nil {
			a.setFlash(err.Error(), true)
			return a, nil, true
		}
		a.goals.cursor = max(min(a.goals.cursor, len(goals)-2), 0)
		a.persist("Removed " + name)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderGoalsTab(cw int) string {
	if a.goals.form != nil {
		return components.ContentCard("Add Goal", a.goals.form.View(), cw)
	}

	t := theme.Active
	goals := a.sess.Goals()
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := max(innerW-62, 12)
	line := func(g model.Goal) string {
		solved := "year"
		if g.SolvedFor == model.SolvedForContribution {
			solved = "monthly"
		}
		return fmt.Sprintf("%-*s %14s %6d %14s %8s %9s",
			nameW, truncStr(g.Name, nameW),
			cli.FormatMoney(g.TargetAmount),
			g.TargetYear,
			cli.FormatMoney(g.MonthlyContribution),
			cli.FormatRate(g.AnnualRate),
			solved)
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %14s %6s %14s %8s %9s",
		nameW, "Goal", "Target", "Year", "Monthly", "Rate", "Solved")))
	body.WriteString("\n")

	if len(goals) == 0 {
		body.WriteString(mutedStyle.Render("No goals yet. Press [a] to add one."))
	}
	for i, g := range goals {
		text := line(g)
		if w := lipgloss.Width(text); w < innerW {
			text += strings.Repeat(" ", innerW-w)
		}
		if i == a.goals.cursor {
			body.WriteString(selStyle.Render(text))
		} else {
			body.WriteString(rowStyle.Render(text))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("[a] add  [d] remove  [j/k] select"))

	title := fmt.Sprintf("Goals (%d)", len(goals))
	out := components.ContentCard(title, body.String(), cw)

	if a.goals.cursor < len(goals) {
		out += "\n" + components.ContentCard("Selected", a.renderGoalDetail(goals[a.goals.cursor]), cw)
	}
	return out
}

func (a App) renderGoalDetail(g model.Goal) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	cy := a.sess.CurrentYear()
	months := max(g.TargetYear-cy, 0) * 12
	rows := [][2]string{
		{"Target", fmt.Sprintf("%s by %d", cli.FormatMoney(g.TargetAmount), g.TargetYear)},
		{"Monthly", cli.FormatMoney(g.MonthlyContribution)},
		{"Saving for", cli.FormatMonths(months)},
		{"Paid in", cli.FormatMoney(g.MonthlyContribution * float64(months))},
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", r[0]+":")))
		b.WriteString(valueStyle.Render(r[1]))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
