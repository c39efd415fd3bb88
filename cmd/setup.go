package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the wizard's text fields before they are parsed.
type setupValues struct {
	offset       string
	income       string
	expenses     string
	retireRate   string
	goalRate     string
	theme        string
	pinYear      bool
	pinnedYearAt int
}

func newSetupValues(cfg config.Config, cy int) *setupValues {
	return &setupValues{
		offset:       strconv.Itoa(cfg.Defaults.RetirementYearOffset),
		income:       money.Encode(cfg.Defaults.MonthlyIncome),
		expenses:     money.Encode(cfg.Defaults.MonthlyExpenses),
		retireRate:   strconv.FormatFloat(cfg.Defaults.RetirementRate, 'f', -1, 64),
		goalRate:     strconv.FormatFloat(cfg.Defaults.GoalRate, 'f', -1, 64),
		theme:        cfg.Appearance.Theme,
		pinYear:      cfg.General.CurrentYear > 0,
		pinnedYearAt: cy,
	}
}

// apply parses the wizard fields into cfg.
func (v *setupValues) apply(cfg config.Config) (config.Config, error) {
	offset, err := strconv.Atoi(strings.TrimSpace(v.offset))
	if err != nil || offset <= 0 {
		return cfg, fmt.Errorf("years until retirement: must be a positive whole number")
	}
	income, err := money.Parse(v.income)
	if err != nil {
		return cfg, fmt.Errorf("monthly income: %w", err)
	}
	expenses, err := money.Parse(v.expenses)
	if err != nil {
		return cfg, fmt.Errorf("monthly expenses: %w", err)
	}
	retireRate, err := config.ResolveRate(cfg, v.retireRate)
	if err != nil {
		return cfg, fmt.Errorf("retirement rate: %w", err)
	}
	goalRate, err := config.ResolveRate(cfg, v.goalRate)
	if err != nil {
		return cfg, fmt.Errorf("goal rate: %w", err)
	}
	if !theme.Known(v.theme) {
		return cfg, fmt.Errorf("unknown theme %q", v.theme)
	}

	cfg.Defaults.RetirementYearOffset = offset
	cfg.Defaults.MonthlyIncome = income
	cfg.Defaults.MonthlyExpenses = expenses
	cfg.Defaults.RetirementRate = retireRate
	cfg.Defaults.GoalRate = goalRate
	cfg.Appearance.Theme = v.theme
	cfg.General.CurrentYear = 0
	if v.pinYear {
		cfg.General.CurrentYear = v.pinnedYearAt
	}
	return cfg, nil
}

func newSetupForm(cfg config.Config, v *setupValues) *huh.Form {
	validMoney := func(s string) error {
		_, err := money.Parse(s)
		return err
	}
	validRate := func(s string) error {
		_, err := config.ResolveRate(cfg, s)
		return err
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to nestegg").
				Description("These defaults seed every new planning session.\nExisting sessions keep their own numbers."),
			huh.NewInput().
				Title("Years until retirement").
				Value(&v.offset).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
						return errors.New("enter a positive whole number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Combined monthly income").
				Value(&v.income).
				Validate(validMoney),
			huh.NewInput().
				Title("Combined monthly expenses").
				Value(&v.expenses).
				Validate(validMoney),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Retirement account annual return").
				Description("percent, or one of: "+strings.Join(config.RateNames(cfg), ", ")).
				Value(&v.retireRate).
				Validate(validRate),
			huh.NewInput().
				Title("Default annual return for goals").
				Value(&v.goalRate).
				Validate(validRate),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
			huh.NewConfirm().
				Title(fmt.Sprintf("Pin the current year to %d?", v.pinnedYearAt)).
				Description("Pinned plans do not roll forward when the calendar year changes.").
				Value(&v.pinYear),
		),
	)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	cy, err := currentYear()
	if err != nil {
		return err
	}

	vals := newSetupValues(cfg, cy)
	if err := newSetupForm(cfg, vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled; nothing was saved.")
			return nil
		}
		return err
	}

	cfg, err = vals.apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `nestegg setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
