package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldCurrency
	settingsFieldOutflow
	settingsFieldDefaultPeriod
	settingsFieldSheet
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func (a App) loadConfig() config.Config {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func (a App) updateSettingsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		return a.scroll(1)
	case "k", "up":
		return a.scroll(-1)
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (App, tea.Cmd) {
	cfg := a.loadConfig()
	a.settings.editing = true
	a.settings.saved = false

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldCurrency:
		ti.Placeholder = "$"
		ti.SetValue(cfg.Budget.Currency)
	case settingsFieldOutflow:
		ti.Placeholder = "comma separated, empty for every category plus savings"
		ti.SetValue(strings.Join(cfg.Budget.OutflowFields, ", "))
	case settingsFieldDefaultPeriod:
		ti.Placeholder = "2025-March, empty for the current month"
		ti.SetValue(cfg.General.DefaultPeriod)
	case settingsFieldSheet:
		ti.Placeholder = "~/budget/2025.toml"
		ti.SetValue(cfg.General.Sheet)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, saves the config and applies
// what can change live. Default period and sheet apply on next start.
func (a *App) settingsSave() {
	cfg := a.loadConfig()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case settingsFieldCurrency:
		if val == "" {
			a.settings.saveErr = fmt.Errorf("currency symbol must not be empty")
			return
		}
		cfg.Budget.Currency = val
	case settingsFieldOutflow:
		cfg.Budget.OutflowFields = nil
		for _, f := range strings.Split(val, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Budget.OutflowFields = append(cfg.Budget.OutflowFields, f)
			}
		}
	case settingsFieldDefaultPeriod:
		if val != "" {
			if _, _, err := model.ParsePeriodKey(val); err != nil {
				a.settings.saveErr = err
				return
			}
			val = model.PeriodKey(val).Canonical().String()
		}
		cfg.General.DefaultPeriod = val
	case settingsFieldSheet:
		cfg.General.Sheet = val
	}

	if err := cfg.Validate(); err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.SaveFile(a.configPath, cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = nil

	theme.SetActive(cfg.Appearance.Theme)
	cli.CurrencySymbol = cfg.Budget.Currency
	a.outflow = cfg.Outflow()
	a.recompute()
}

func (a App) outflowDisplay() string {
	if a.outflow == nil {
		return "all categories + savings"
	}
	return strings.Join(a.outflow, ", ")
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.loadConfig()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	orNone := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}

	fields := []struct{ label, value string }{
		{"Theme", theme.Active.Name},
		{"Currency", cli.CurrencySymbol},
		{"Outflow Fields", a.outflowDisplay()},
		{"Default Period", orNone(cfg.General.DefaultPeriod)},
		{"Budget Sheet", orNone(cfg.General.Sheet)},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")) +
				selectedStyle.Render(truncStr(f.value, innerW-20))
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad))
			}
			form.WriteString(line)
		} else {
			form.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s ", f.label+":")))
			form.WriteString(valueStyle.Render(truncStr(f.value, innerW-20)))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).
			Render("Save failed: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Positive).Background(t.Surface).Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	outflowFields := a.outflowFields()

	var info strings.Builder
	row := func(label, value string) {
		info.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)) + valueStyle.Render(value) + "\n")
	}
	row("Config file:", a.configPath)
	row("Periods loaded:", cli.FormatNumber(int64(a.builder.Store().Len())))
	if keys := a.builder.Store().Keys(); len(keys) > 0 {
		row("First / last:", keys[0].String()+" / "+keys[len(keys)-1].String())
	}
	row("Categories:", cli.FormatNumber(int64(len(a.builder.Schema().Categories))))
	row("Outflow counts:", truncStr(strings.Join(outflowFields, ", "), innerW-17))
	if r := a.loadResult; r != nil && r.TotalFiles > 0 {
		row("Sheets imported:", fmt.Sprintf("%d of %d in %.1fs", r.ParsedFiles, r.TotalFiles, a.loadTime.Seconds()))
		if len(r.Errors) > 0 {
			row("Rejected values:", cli.FormatNumber(int64(len(r.Errors))))
		}
	}
	info.WriteString(labelStyle.Render("Session data is kept in memory only and is gone when you quit."))

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("Session", info.String(), cw)
}
