package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagSnapshotYear int
	flagSnapshotAll  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show goal and retirement progress as of a year",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&flagSnapshotYear, "year", 0, "Snapshot year (default: current year)")
	snapshotCmd.Flags().BoolVar(&flagSnapshotAll, "all", false, "One row per year from now until retirement")
	snapshotCmd.MarkFlagsMutuallyExclusive("year", "all")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		if flagSnapshotAll {
			return printSnapshotSeries(sess)
		}

		year := flagSnapshotYear
		if year == 0 {
			year = sess.CurrentYear()
		}
		snap, err := sess.Snapshot(year)
		if err != nil {
			return err
		}
		printSnapshot(snap)
		return nil
	})
}

func printSnapshot(snap model.Snapshot) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SNAPSHOT  %d  (%s in)", snap.Year, cli.FormatMonths(snap.MonthsElapsed))))
	fmt.Println()

	if len(snap.Goals) > 0 {
		rows := make([][]string, 0, len(snap.Goals))
		for _, g := range snap.Goals {
			status := cli.RenderProgressBar(g.PercentSaved, 20) + " " + cli.FormatPercent(g.PercentSaved)
			if g.Funded {
				status += " ✓"
			}
			rows = append(rows, []string{
				g.Name,
				cli.FormatMoney(g.SavedAmount),
				cli.FormatMoney(g.TargetAmount),
				status,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Goals",
			Headers: []string{"Goal", "Saved", "Target", "Progress"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	fmt.Print(cli.RenderKV([][2]string{
		{"Retirement savings", cli.RenderMoney(cli.FormatMoney(snap.RetirementSavings))},
	}))
}

func printSnapshotSeries(sess *session.PlanningSession) error {
	lo, hi := sess.CurrentYear(), sess.Params().RetirementYear

	var rows [][]string
	var savings []float64
	for year := lo; year <= hi; year++ {
		snap, err := sess.Snapshot(year)
		if err != nil {
			return err
		}
		funded := 0
		var saved float64
		for _, g := range snap.Goals {
			saved += g.SavedAmount
			if g.Funded {
				funded++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(year),
			cli.FormatMoney(saved),
			fmt.Sprintf("%d/%d", funded, len(snap.Goals)),
			cli.FormatMoney(snap.RetirementSavings),
		})
		savings = append(savings, snap.RetirementSavings)
	}
	if len(rows) == 0 {
		fmt.Println(cli.RenderWarning("Retirement year is in the past; nothing to show."))
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Snapshots %d-%d", lo, hi),
		Headers: []string{"Year", "Goal Savings", "Funded", "Retirement"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Retirement  %s\n", cli.RenderSparkline(savings))
	return nil
}
