package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// setupValues backs the first-run form.
type setupValues struct {
	theme    string
	currency string
	income   string
	sheet    string
}

func newSetupValues() *setupValues {
	return &setupValues{theme: theme.Active.Name, currency: cli.CurrencySymbol}
}

// newSetupForm builds the first-run wizard. Income is optional and, when
// given, is written to period right away.
func newSetupForm(period model.PeriodKey, vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetdash").
				Description("A few settings and you're ready.\nRun `budgetdash setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewInput().
				Title("Currency symbol").
				CharLimit(4).
				Value(&vals.currency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income for "+period.String()).
				Description("Leave blank to keep the default").
				Value(&vals.income).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validateAmount("Income")(s)
				}),
			huh.NewInput().
				Title("Budget sheet").
				Description("TOML file or directory imported at startup (optional)").
				Value(&vals.sheet),
		),
	).WithShowHelp(true)
}

// applySetup saves the wizard's choices to the config file and applies
// them to the running dashboard.
func (a *App) applySetup() tea.Cmd {
	vals := a.setupVals
	a.setupVals = nil
	if vals == nil {
		return nil
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return a.setStatus(err.Error(), true)
	}
	cfg.Appearance.Theme = vals.theme
	if c := strings.TrimSpace(vals.currency); c != "" {
		cfg.Budget.Currency = c
		cli.CurrencySymbol = c
	}
	if s := strings.TrimSpace(vals.sheet); s != "" {
		cfg.General.Sheet = s
	}
	theme.SetActive(vals.theme)

	if strings.TrimSpace(vals.income) != "" {
		if err := a.builder.SetFieldString(a.period, model.FieldIncome, vals.income); err != nil {
			return a.setStatus(err.Error(), true)
		}
	}

	if err := config.SaveFile(a.configPath, cfg); err != nil {
		return a.setStatus(fmt.Sprintf("could not save config: %s", err), true)
	}
	return a.setStatus("saved "+a.configPath, false)
}
