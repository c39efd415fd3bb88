package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/logger"
	"github.com/theirongolddev/nestegg/internal/session"
	"github.com/theirongolddev/nestegg/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagCurrentYear int
	flagDB          string
	flagQuiet       bool
	flagDebug       bool

	// appConfig is loaded once per invocation by the root pre-run hook.
	appConfig = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "nestegg",
	Short: "Retirement and savings goal planner",
	Long: "Plan a household's savings goals and project net worth at retirement.\n" +
		"Goals are solved for either a monthly contribution or a target year, and\n" +
		"whatever is left each month flows into the retirement balance.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagCurrentYear, "current-year", 0, "Treat this year as the current year for a new session")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", store.DefaultPath(), "Session database path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notices on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Verbose development logging")
	rootCmd.Flags().BoolVar(&flagSchedule, "schedule", false, "Show the year-by-year projection")
}

// setup loads the config and builds the logger before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	level := logger.LogLevel(cfg.Log.Level)
	if flagDebug {
		level = logger.DebugLevel
	}
	return logger.Init(flagDebug || cfg.Log.Development, level)
}

// currentYear resolves "now" for a new session: --current-year, then the
// environment and config, then the clock.
func currentYear() (int, error) {
	if flagCurrentYear > 0 {
		return flagCurrentYear, nil
	}
	return config.CurrentYear(appConfig, time.Now())
}

func openStore() (*store.Store, error) {
	st, err := store.Open(flagDB)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return st, nil
}

// loadSession restores the active session, or starts a new one seeded from
// the config defaults. A restored session keeps the year it was created in.
func loadSession(st *store.Store, log *zap.Logger) (*session.PlanningSession, error) {
	state, err := st.LoadActive()
	switch {
	case err == nil:
		if flagCurrentYear > 0 && flagCurrentYear != state.CurrentYear {
			notice("Session %s was started in %d; --current-year %d is ignored. Run `nestegg session end` to start over.",
				shortID(state.ID), state.CurrentYear, flagCurrentYear)
		}
		log.Debug("session restored", zap.String("id", state.ID), zap.Int("goals", len(state.Goals)))
		return session.Restore(state, session.WithLogger(log)), nil
	case errors.Is(err, store.ErrNoSession):
	default:
		return nil, err
	}

	cy, err := currentYear()
	if err != nil {
		return nil, err
	}
	id := store.NewID()
	log.Debug("session started", zap.String("id", id), zap.Int("current_year", cy))
	return session.New(id, config.DefaultParams(appConfig, cy), cy, session.WithLogger(log)), nil
}

// withSession runs fn against the active session. When mutate is true the
// session is saved after fn succeeds; a failed fn leaves the store untouched.
func withSession(mutate bool, fn func(*session.PlanningSession) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sess, err := loadSession(st, logger.Get())
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	if err := st.SaveSession(sess.State()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func notice(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
