package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/logger"
	"github.com/theirongolddev/nestegg/internal/scenario"
	"github.com/theirongolddev/nestegg/internal/session"
	"github.com/theirongolddev/nestegg/internal/store"

	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Import or export the plan as YAML",
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the active session with a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioImport,
}

var scenarioExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the active session as YAML (stdout when FILE is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScenarioExport,
}

func init() {
	scenarioCmd.AddCommand(scenarioImportCmd)
	scenarioCmd.AddCommand(scenarioExportCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioImport(_ *cobra.Command, args []string) error {
	f, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	cy, err := currentYear()
	if err != nil {
		return err
	}

	// Build before touching the store so a bad file leaves the session intact.
	sess, err := f.Build(store.NewID(), cy, session.WithLogger(logger.Get()))
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	old, err := st.LoadActive()
	switch {
	case err == nil:
		if err := st.ReplaceSession(old.ID, sess.State()); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		notice("Replaced session %s", shortID(old.ID))
	case errors.Is(err, store.ErrNoSession):
		if err := st.SaveSession(sess.State()); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	default:
		return err
	}

	fmt.Printf("\n  Imported %d goals from %s\n", len(sess.Goals()), args[0])
	fmt.Printf("  Net worth at retirement: %s\n", cli.RenderMoney(cli.FormatMoney(sess.NetWorth())))
	return nil
}

func runScenarioExport(_ *cobra.Command, args []string) error {
	return withSession(false, func(sess *session.PlanningSession) error {
		if len(args) == 0 {
			return scenario.Export(sess, os.Stdout)
		}
		if err := scenario.Save(sess, args[0]); err != nil {
			return err
		}
		notice("Wrote %s", args[0])
		return nil
	})
}
