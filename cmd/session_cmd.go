package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/store"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or end the saved planning session",
	RunE:  runSessionShow,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active session",
	RunE:  runSessionShow,
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Discard the active session and all its goals",
	RunE:  runSessionEnd,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionShow(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	state, err := st.LoadActive()
	if errors.Is(err, store.ErrNoSession) {
		fmt.Println("\n  No saved session. One starts with the first change.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderKV([][2]string{
		{"Session", state.ID},
		{"Current year", strconv.Itoa(state.CurrentYear)},
		{"Goals", strconv.Itoa(len(state.Goals))},
		{"Created", state.CreatedAt.Local().Format(time.DateTime)},
		{"Updated", state.UpdatedAt.Local().Format(time.DateTime)},
		{"Database", flagDB},
	}))
	return nil
}

func runSessionEnd(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	state, err := st.LoadActive()
	if errors.Is(err, store.ErrNoSession) {
		fmt.Println("\n  No saved session.")
		return nil
	}
	if err != nil {
		return err
	}
	if err := st.DeleteSession(state.ID); err != nil {
		return err
	}
	fmt.Printf("\n  Ended session %s (%d goals discarded)\n", shortID(state.ID), len(state.Goals))
	return nil
}
