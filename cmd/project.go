package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/cobra"
)

var flagSchedule bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project net worth at retirement",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().BoolVar(&flagSchedule, "schedule", false, "Show the year-by-year projection")
	rootCmd.AddCommand(projectCmd)
}

func runProject(_ *cobra.Command, _ []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		p := sess.Params()
		netWorth := sess.NetWorth()

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("NESTEGG  %d → %d", sess.CurrentYear(), p.RetirementYear)))
		fmt.Println()

		rows := [][]string{
			{"Monthly Income", cli.FormatMoney(p.MonthlyIncome)},
			{"Monthly Expenses", cli.FormatMoney(p.MonthlyExpenses)},
			{"Monthly Surplus", cli.RenderMoney(cli.FormatMoney(p.MonthlySurplus()))},
			{"Retirement Rate", cli.FormatRate(p.RetirementRate)},
			{"Goals", strconv.Itoa(len(sess.Goals()))},
			{"---"},
			{"Retirement Year", strconv.Itoa(p.RetirementYear)},
			{"Net Worth at Retirement", cli.RenderMoney(cli.FormatMoney(netWorth))},
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title: "Projection",
			Rows:  rows,
		}))

		if p.RetirementYear < sess.CurrentYear() {
			fmt.Println(cli.RenderWarning("Retirement year is in the past; nothing is projected."))
		}

		if flagSchedule {
			printSchedule(sess)
		}
		return nil
	})
}

func printSchedule(sess *session.PlanningSession) {
	schedule := sess.Schedule()
	if len(schedule) == 0 {
		return
	}

	rows := make([][]string, 0, len(schedule))
	balances := make([]float64, 0, len(schedule))
	for _, y := range schedule {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.ActiveGoals),
			cli.FormatMoney(y.Available),
			cli.FormatMoney(y.Contribution),
			cli.FormatMoney(y.Balance),
		})
		balances = append(balances, y.Balance)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Year by Year",
		Headers: []string{"Year", "Goals", "Monthly In", "Added", "Balance"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Balance  %s\n", cli.RenderSparkline(balances))
}
