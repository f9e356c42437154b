package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	themeName := cfg.Appearance.Theme
	currency := cfg.Budget.Currency
	sheet := cfg.General.Sheet
	period := cfg.General.DefaultPeriod
	outflow := strings.Join(cfg.Budget.OutflowFields, ", ")

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetdash").
				Description("Settings are saved to "+configPath()+".\nRun `budgetdash setup` anytime to reconfigure."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewInput().
				Title("Currency symbol").
				CharLimit(4).
				Value(&currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("currency symbol must not be empty")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Budget sheet").
				Description("TOML file or directory imported at startup. Leave empty to start blank.").
				Value(&sheet).
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s == "" {
						return nil
					}
					_, err := source.ScanDir(expandHome(s))
					return err
				}),
			huh.NewInput().
				Title("Default month").
				Description("e.g. 2025-March. Leave empty for the current month.").
				Value(&period).
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s == "" {
						return nil
					}
					_, _, err := model.ParsePeriodKey(s)
					return err
				}),
			huh.NewInput().
				Title("Outflow fields").
				Description("Comma separated. Leave empty to count every category plus savings.").
				Value(&outflow),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.Appearance.Theme = themeName
	cfg.Budget.Currency = strings.TrimSpace(currency)
	cfg.General.Sheet = strings.TrimSpace(sheet)
	cfg.General.DefaultPeriod = ""
	if p := strings.TrimSpace(period); p != "" {
		cfg.General.DefaultPeriod = model.PeriodKey(p).Canonical().String()
	}
	cfg.Budget.OutflowFields = nil
	for _, f := range strings.Split(outflow, ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.Budget.OutflowFields = append(cfg.Budget.OutflowFields, f)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveFile(configPath(), cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	fmt.Println("  Run `budgetdash` to open the dashboard.")
	fmt.Println()

	return nil
}
