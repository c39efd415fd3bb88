package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagRetirementYear int
	flagIncome         string
	flagExpenses       string
	flagRetirementRate string
)

var paramsFlagNames = []string{"retirement-year", "income", "expenses", "rate"}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show or change the plan parameters",
	RunE:  runParamsShow,
}

var paramsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan parameters",
	RunE:  runParamsShow,
}

var paramsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more plan parameters",
	Example: "  nestegg params set --income 9000 --expenses 5500\n" +
		"  nestegg params set --retirement-year 2055 --rate balanced",
	RunE: runParamsSet,
}

func init() {
	paramsSetCmd.Flags().IntVar(&flagRetirementYear, "retirement-year", 0, "Year of retirement")
	paramsSetCmd.Flags().StringVar(&flagIncome, "income", "", "Combined monthly income")
	paramsSetCmd.Flags().StringVar(&flagExpenses, "expenses", "", "Combined monthly expenses")
	paramsSetCmd.Flags().StringVar(&flagRetirementRate, "rate", "", "Annual retirement return (percent or preset)")

	paramsCmd.AddCommand(paramsShowCmd)
	paramsCmd.AddCommand(paramsSetCmd)
	rootCmd.AddCommand(paramsCmd)
}

func runParamsShow(_ *cobra.Command, _ []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		printParams(sess)
		return nil
	})
}

func runParamsSet(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if !anyParamsFlagChanged(flags) {
		return fmt.Errorf("nothing to set; pass at least one of --retirement-year, --income, --expenses, --rate")
	}

	return withSession(true, func(sess *session.PlanningSession) error {
		p := sess.Params()
		var err error
		if flags.Changed("retirement-year") {
			p.RetirementYear = flagRetirementYear
		}
		if flags.Changed("income") {
			if p.MonthlyIncome, err = money.Parse(flagIncome); err != nil {
				return fmt.Errorf("--income: %w", err)
			}
		}
		if flags.Changed("expenses") {
			if p.MonthlyExpenses, err = money.Parse(flagExpenses); err != nil {
				return fmt.Errorf("--expenses: %w", err)
			}
		}
		if flags.Changed("rate") {
			if p.RetirementRate, err = config.ResolveRate(appConfig, flagRetirementRate); err != nil {
				return fmt.Errorf("--rate: %w", err)
			}
		}
		if err := sess.SetParams(p); err != nil {
			return err
		}
		printParams(sess)
		return nil
	})
}

// anyParamsFlagChanged ignores inherited flags such as --debug.
func anyParamsFlagChanged(flags *pflag.FlagSet) bool {
	for _, name := range paramsFlagNames {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

func printParams(sess *session.PlanningSession) {
	p := sess.Params()
	fmt.Println()
	fmt.Print(cli.RenderKV([][2]string{
		{"Current year", strconv.Itoa(sess.CurrentYear())},
		{"Retirement year", strconv.Itoa(p.RetirementYear)},
		{"Monthly income", cli.FormatMoney(p.MonthlyIncome)},
		{"Monthly expenses", cli.FormatMoney(p.MonthlyExpenses)},
		{"Monthly surplus", cli.RenderMoney(cli.FormatMoney(p.MonthlySurplus()))},
		{"Retirement rate", cli.FormatRate(p.RetirementRate)},
	}))
}
