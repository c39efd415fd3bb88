package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagGoalAmount       string
	flagGoalRate         string
	flagGoalYear         int
	flagGoalContribution string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage savings goals",
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a goal, solving for the missing contribution or year",
	Example: "  nestegg goal add House --amount 60000 --rate 4 --year 2031\n" +
		"  nestegg goal add Car --amount 18000 --rate cash --contribution 600",
	Args: cobra.ExactArgs(1),
	RunE: runGoalAdd,
}

var goalRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalRemove,
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals",
	RunE:    runGoalList,
}

func init() {
	goalAddCmd.Flags().StringVar(&flagGoalAmount, "amount", "", "Target amount")
	goalAddCmd.Flags().StringVar(&flagGoalRate, "rate", "", "Annual return while saving (percent or preset; default from config)")
	goalAddCmd.Flags().IntVar(&flagGoalYear, "year", 0, "Target year; solves for the monthly contribution")
	goalAddCmd.Flags().StringVar(&flagGoalContribution, "contribution", "", "Monthly contribution; solves for the target year")
	_ = goalAddCmd.MarkFlagRequired("amount")
	goalAddCmd.MarkFlagsMutuallyExclusive("year", "contribution")
	goalAddCmd.MarkFlagsOneRequired("year", "contribution")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalRemoveCmd)
	goalCmd.AddCommand(goalListCmd)
	rootCmd.AddCommand(goalCmd)
}

// goalRequest turns the add flags into a solver request.
func goalRequest(cmd *cobra.Command, name string) (planner.GoalRequest, error) {
	amount, err := money.Parse(flagGoalAmount)
	if err != nil {
		return planner.GoalRequest{}, fmt.Errorf("--amount: %w", err)
	}

	rate := appConfig.Defaults.GoalRate
	if cmd.Flags().Changed("rate") {
		if rate, err = config.ResolveRate(appConfig, flagGoalRate); err != nil {
			return planner.GoalRequest{}, fmt.Errorf("--rate: %w", err)
		}
	}

	if cmd.Flags().Changed("contribution") {
		c, err := money.Parse(flagGoalContribution)
		if err != nil {
			return planner.GoalRequest{}, fmt.Errorf("--contribution: %w", err)
		}
		return planner.ByContribution(name, amount, rate, c), nil
	}
	return planner.ByYear(name, amount, rate, flagGoalYear), nil
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	req, err := goalRequest(cmd, args[0])
	if err != nil {
		return err
	}

	return withSession(true, func(sess *session.PlanningSession) error {
		g, err := sess.AddGoal(req)
		if err != nil {
			return err
		}

		fmt.Println()
		if g.SolvedFor == model.SolvedForContribution {
			fmt.Printf("  Added %s: save %s/month to reach %s by %d\n",
				g.Name, cli.FormatMoney(g.MonthlyContribution), cli.FormatMoney(g.TargetAmount), g.TargetYear)
		} else {
			fmt.Printf("  Added %s: %s/month reaches %s by %d\n",
				g.Name, cli.FormatMoney(g.MonthlyContribution), cli.FormatMoney(g.TargetAmount), g.TargetYear)
		}
		fmt.Printf("  Net worth at retirement: %s\n", cli.RenderMoney(cli.FormatMoney(sess.NetWorth())))
		if sess.Params().MonthlySurplus() < totalContributions(sess.Goals(), sess.CurrentYear()) {
			fmt.Println(cli.RenderWarning("Goal contributions now exceed the monthly surplus."))
		}
		return nil
	})
}

func runGoalRemove(_ *cobra.Command, args []string) error {
	return withSession(true, func(sess *session.PlanningSession) error {
		if err := sess.RemoveGoal(args[0]); err != nil {
			return err
		}
		fmt.Printf("\n  Removed %s\n", args[0])
		fmt.Printf("  Net worth at retirement: %s\n", cli.RenderMoney(cli.FormatMoney(sess.NetWorth())))
		return nil
	})
}

func runGoalList(_ *cobra.Command, _ []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		goals := sess.Goals()
		if len(goals) == 0 {
			fmt.Println("\n  No goals yet.")
			fmt.Println("  Add one with: nestegg goal add NAME --amount N --year Y")
			return nil
		}

		rows := make([][]string, 0, len(goals)+2)
		for _, g := range goals {
			solved := "contribution"
			if g.SolvedFor == model.SolvedForYear {
				solved = "year"
			}
			rows = append(rows, []string{
				g.Name,
				cli.FormatMoney(g.TargetAmount),
				strconv.Itoa(g.TargetYear),
				cli.FormatMoney(g.MonthlyContribution),
				cli.FormatRate(g.AnnualRate),
				solved,
			})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Total now", "", "",
			cli.FormatMoney(totalContributions(goals, sess.CurrentYear())), "", ""})

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Goals (%d)", len(goals)),
			Headers: []string{"Goal", "Target", "Year", "Monthly", "Rate", "Solved"},
			Rows:    rows,
		}))
		return nil
	})
}

// totalContributions sums the contributions still being paid in year.
func totalContributions(goals []model.Goal, year int) float64 {
	var total float64
	for _, g := range goals {
		if g.ActiveIn(year) {
			total += g.MonthlyContribution
		}
	}
	return total
}
