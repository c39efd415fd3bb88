// Package cmd implements the nestegg CLI commands.
package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/nestegg/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.CurrentYear > 0 {
		fmt.Printf("    Current year: %d (pinned)\n", cfg.General.CurrentYear)
	} else {
		fmt.Println("    Current year: from the clock")
	}
	fmt.Printf("    Database:     %s\n", flagDB)
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Retirement in:    %d years\n", cfg.Defaults.RetirementYearOffset)
	fmt.Printf("    Monthly income:   $%.2f\n", cfg.Defaults.MonthlyIncome)
	fmt.Printf("    Monthly expenses: $%.2f\n", cfg.Defaults.MonthlyExpenses)
	fmt.Printf("    Retirement rate:  %.2f%%\n", cfg.Defaults.RetirementRate)
	fmt.Printf("    Goal rate:        %.2f%%\n", cfg.Defaults.GoalRate)
	fmt.Println()

	fmt.Println("  [Rates]")
	for _, name := range config.RateNames(cfg) {
		rate, _ := config.ResolveRate(cfg, name)
		fmt.Printf("    %-13s %.2f%%\n", name+":", rate)
	}
	if len(cfg.Rates.Presets) > 0 {
		custom := make([]string, 0, len(cfg.Rates.Presets))
		for name := range cfg.Rates.Presets {
			custom = append(custom, name)
		}
		sort.Strings(custom)
		fmt.Printf("    (custom: %v)\n", custom)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:       %s\n", cfg.Log.Level)
	fmt.Printf("    Development: %v\n", cfg.Log.Development)
	fmt.Println()

	fmt.Println("  Run `nestegg setup` to reconfigure.")
	return nil
}
