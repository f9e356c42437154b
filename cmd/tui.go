package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/store"
	"github.com/theirongolddev/budgetdash/internal/tui"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

var flagExportDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&flagExportDir, "export-dir", ".", "Directory [w] writes CSV exports to")
	}
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if err := appCfg.Validate(); err != nil {
		return err
	}
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	theme.SetActive(config.GetTheme(appCfg))

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The sheet is imported inside the app so the loading screen can show progress.
	app := tui.NewApp(tui.Options{
		Builder:       budget.NewBuilder(store.New(), appCfg.Schema()),
		OutflowFields: appCfg.Outflow(),
		Period:        period,
		SheetPath:     sheetPath(),
		ExportDir:     expandHome(flagExportDir),
		ConfigPath:    configPath(),
		NeedSetup:     !fileExists(configPath()),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
