package cmd

import (
	"fmt"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show today, each goal and retirement in year order",
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(_ *cobra.Command, _ []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		points := sess.Timeline()

		fmt.Println()
		fmt.Println(cli.RenderTitle("TIMELINE"))
		fmt.Println()

		for _, pt := range points {
			marker := "●"
			switch pt.Kind {
			case model.TimelineGoal:
				marker = "◆"
			case model.TimelineRetirement:
				marker = "★"
			}
			fmt.Printf("  %d  %s %s\n", pt.Year, marker, pt.Label)
			fmt.Printf("        %s\n", pt.Detail)
		}
		return nil
	})
}
