// Package cmd implements the budgetdash CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/config"
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
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", configPath())
	if fileExists(configPath()) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.DefaultPeriod != "" {
		fmt.Printf("    Default period: %s\n", cfg.General.DefaultPeriod)
	} else {
		fmt.Println("    Default period: current month")
	}
	if sheet := config.GetSheet(cfg); sheet != "" {
		fmt.Printf("    Budget sheet:   %s\n", sheet)
	} else {
		fmt.Println("    Budget sheet:   not configured")
	}
	fmt.Println()

	schema := cfg.Schema()
	fmt.Println("  [Budget]")
	fmt.Printf("    Currency:   %s\n", cfg.Budget.Currency)
	outflow := cfg.Outflow()
	if outflow == nil {
		fmt.Printf("    Outflow:    every category plus savings\n")
		outflow = budget.DefaultOutflowFields(schema)
	}
	fmt.Printf("                %s\n", strings.Join(outflow, ", "))
	fmt.Println("    Categories:")
	for _, c := range schema.Categories {
		fmt.Printf("      %-20s %s\n", c.Name, cli.FormatMoney(c.Default))
	}
	fmt.Printf("    Defaults:   income %s, savings %s, investments %s, net worth %s, debt %s\n",
		cli.FormatMoney(schema.Income), cli.FormatMoney(schema.Savings), cli.FormatMoney(schema.Investments),
		cli.FormatMoney(schema.NetWorth), cli.FormatMoney(schema.Debt))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", config.GetTheme(cfg))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", config.GetDaemonAddr(cfg))
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Println(cli.RenderWarning(err.Error()))
		fmt.Println()
	}

	fmt.Println("  Run `budgetdash setup` to reconfigure.")
	return nil
}
