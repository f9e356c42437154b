package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestApp(t *testing.T, outflow []string) App {
	t.Helper()
	dir := t.TempDir()
	a := NewApp(Options{
		Builder:       budget.NewBuilder(store.New(), model.DefaultSchema()),
		OutflowFields: outflow,
		Period:        "2025-march",
		ExportDir:     filepath.Join(dir, "exports"),
		ConfigPath:    filepath.Join(dir, "config.toml"),
	})
	a = update(t, a, DataLoadedMsg{})
	return update(t, a, tea.WindowSizeMsg{Width: 140, Height: 48})
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

func press(t *testing.T, a App, key string) App {
	t.Helper()
	switch key {
	case "enter":
		return update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	}
	return update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func TestNewAppCanonicalizesPeriod(t *testing.T) {
	a := newTestApp(t, nil)
	if a.period != "2025-March" {
		t.Fatalf("period = %q, want 2025-March", a.period)
	}
	if a.stored {
		t.Fatal("fresh period should not be stored")
	}
	if got := a.summary.LeftToBudget.StringFixed(2); got != "2000.00" {
		t.Fatalf("LeftToBudget = %s, want 2000.00", got)
	}
}

func TestMonthSwitchingDoesNotCreateRecords(t *testing.T) {
	a := newTestApp(t, nil)

	a = press(t, a, "]")
	if a.period != "2025-April" {
		t.Fatalf("after ] period = %q, want 2025-April", a.period)
	}
	a = press(t, a, "[")
	a = press(t, a, "[")
	if a.period != "2025-February" {
		t.Fatalf("after [[ period = %q, want 2025-February", a.period)
	}
	if n := a.builder.Store().Len(); n != 0 {
		t.Fatalf("store len = %d, want 0", n)
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t, nil)
	tests := []struct {
		key  string
		want int
	}{
		{"x", tabExpenses},
		{"h", tabHistory},
		{"l", tabLineItems},
		{"s", tabSettings},
		{"o", tabOverview},
	}
	for _, tt := range tests {
		a = press(t, a, tt.key)
		if a.activeTab != tt.want {
			t.Fatalf("key %q -> tab %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}
}

func TestApplyEditWritesChangedFieldsOnly(t *testing.T) {
	a := newTestApp(t, nil)

	a.editVals = newEditValues(a.record)
	for i, name := range a.editVals.names {
		if name == "Rent" {
			a.editVals.values[i] = "1,350.00"
		}
	}
	a.applyEdit()
	a.recompute()

	if a.status.Error {
		t.Fatalf("status = %+v, want success", a.status)
	}
	if !a.stored {
		t.Fatal("edited period should be stored")
	}
	if v, _ := a.record.Expense("Rent"); v.StringFixed(2) != "1350.00" {
		t.Fatalf("Rent = %s, want 1350.00", v)
	}
	if got := a.summary.TotalExpenses.StringFixed(2); got != "2650.00" {
		t.Fatalf("TotalExpenses = %s, want 2650.00", got)
	}

	// Opening and closing the form for another month writes nothing.
	a = press(t, a, "]")
	a.editVals = newEditValues(a.record)
	a.applyEdit()
	if n := a.builder.Store().Len(); n != 1 {
		t.Fatalf("store len = %d, want 1", n)
	}
}

func TestApplyEditRejectsNegative(t *testing.T) {
	a := newTestApp(t, nil)

	a.editVals = newEditValues(a.record)
	a.editVals.values[0] = "-10" // income
	a.applyEdit()
	a.recompute()

	if !a.status.Error || !strings.Contains(a.status.Text, "negative") {
		t.Fatalf("status = %+v, want negative amount error", a.status)
	}
	if a.stored {
		t.Fatal("rejected edit created a record")
	}
}

func TestValidateAmount(t *testing.T) {
	v := validateAmount("Rent")
	if err := v("1,200.50"); err != nil {
		t.Fatalf("valid amount rejected: %v", err)
	}
	if err := v("-1"); err == nil {
		t.Fatal("negative amount accepted")
	}
	if err := v("abc"); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestLineItemsAddEditDelete(t *testing.T) {
	a := newTestApp(t, nil)

	a.itemVals = &lineItemValues{period: a.period, category: "Groceries", projected: "400", actual: "380"}
	a.applyLineItem()
	a.itemVals = &lineItemValues{period: a.period, category: "Gas", projected: "200", actual: "230"}
	a.applyLineItem()
	a.recompute()

	items := a.record.LineItems
	if len(items) != 2 || items[0].Difference.StringFixed(2) != "20.00" || items[1].Difference.StringFixed(2) != "-30.00" {
		t.Fatalf("line items = %+v", items)
	}

	// Same category replaces in place.
	a.itemVals = &lineItemValues{period: a.period, category: "groceries", projected: "400", actual: "410"}
	a.applyLineItem()
	a.recompute()
	if len(a.record.LineItems) != 2 || a.record.LineItems[0].Actual.StringFixed(2) != "410.00" {
		t.Fatalf("after edit line items = %+v", a.record.LineItems)
	}

	a = press(t, a, "l")
	a = press(t, a, "j")
	a = press(t, a, "d")
	if len(a.record.LineItems) != 1 || a.record.LineItems[0].Category != "Groceries" {
		t.Fatalf("after delete line items = %+v", a.record.LineItems)
	}
}

func TestDefaultOutflowCountsEveryCategoryPlusSavings(t *testing.T) {
	a := newTestApp(t, nil)
	if a.sumErr != nil {
		t.Fatalf("summary error: %v", a.sumErr)
	}
	if got := a.summary.TotalOutflow.StringFixed(2); got != "3000.00" {
		t.Fatalf("TotalOutflow = %s, want 3000.00", got)
	}
	if got := a.summary.Remaining.StringFixed(2); got != "2000.00" {
		t.Fatalf("Remaining = %s, want 2000.00", got)
	}
}

func TestHistoryEnterOpensPeriod(t *testing.T) {
	a := newTestApp(t, nil)
	b := a.builder
	if err := b.SetFieldString("2025-January", "income", "4800"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetFieldString("2025-February", "income", "4900"); err != nil {
		t.Fatal(err)
	}
	a.recompute()

	a = press(t, a, "h")
	a = press(t, a, "j")
	a = press(t, a, "enter")

	if a.period != "2025-February" || a.activeTab != tabOverview {
		t.Fatalf("period = %q tab = %d, want 2025-February on overview", a.period, a.activeTab)
	}
	if got := a.record.Income.StringFixed(2); got != "4900.00" {
		t.Fatalf("income = %s, want 4900.00", got)
	}
}

func TestWriteCSV(t *testing.T) {
	a := newTestApp(t, nil)
	a = press(t, a, "w")

	path := filepath.Join(a.exportDir, "budget_summary_2025-March.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v (status %+v)", err, a.status)
	}
	if !strings.HasPrefix(string(data), "Category,Amount\nIncome,5000.00\n") {
		t.Fatalf("export = %q", data)
	}
	if a.status.Error {
		t.Fatalf("status = %+v", a.status)
	}
}

func TestSettingsSaveOutflow(t *testing.T) {
	a := newTestApp(t, nil)
	a.activeTab = tabSettings
	a.settings.cursor = settingsFieldOutflow

	a = press(t, a, "enter")
	if !a.settings.editing {
		t.Fatal("enter did not start editing")
	}
	a.settings.input.SetValue("Rent, savings, rent")
	a = press(t, a, "enter")

	if a.settings.saveErr != nil {
		t.Fatalf("save error: %v", a.settings.saveErr)
	}
	if got := a.summary.TotalOutflow.StringFixed(2); got != "1700.00" {
		t.Fatalf("TotalOutflow = %s, want 1700.00", got)
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Budget.OutflowFields) != 3 {
		t.Fatalf("saved outflow = %v", cfg.Budget.OutflowFields)
	}
}

func TestSettingsRejectsUnknownOutflow(t *testing.T) {
	a := newTestApp(t, nil)
	a.activeTab = tabSettings
	a.settings.cursor = settingsFieldOutflow
	a = press(t, a, "enter")
	a.settings.input.SetValue("Yacht")
	a = press(t, a, "enter")

	if a.settings.saveErr == nil {
		t.Fatal("unknown outflow category saved")
	}
	if _, err := os.Stat(a.configPath); !os.IsNotExist(err) {
		t.Fatalf("config written despite error: %v", err)
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp(t, nil)
	if err := a.builder.SetFieldString(a.period, "Groceries", "420"); err != nil {
		t.Fatal(err)
	}
	a.recompute()

	want := map[int]string{
		tabOverview:  "Left to Budget",
		tabExpenses:  "Expense Breakdown",
		tabHistory:   "Income vs Expenses",
		tabLineItems: "Projected vs Actual",
		tabSettings:  "Outflow Fields",
	}
	for tab, text := range want {
		a.activeTab = tab
		view := a.View()
		if !strings.Contains(view, text) {
			t.Fatalf("tab %d view missing %q", tab, text)
		}
		if h := lipgloss.Height(view); h != a.height {
			t.Fatalf("tab %d view height = %d, want %d", tab, h, a.height)
		}
	}
}

func TestOverviewShowsOutflowError(t *testing.T) {
	a := newTestApp(t, []string{"Rent", "Yacht"})
	if a.sumErr == nil {
		t.Fatal("expected unknown category error")
	}
	if view := a.View(); !strings.Contains(view, "unknown category") {
		t.Fatal("overview does not show the outflow error")
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
	}
	if got := (App{}).tabAtX(1000); got != -1 {
		t.Fatalf("tabAtX(1000) = %d, want -1", got)
	}
}

func TestShortPeriod(t *testing.T) {
	if got := shortPeriod("2025-March"); got != "Mar 25" {
		t.Fatalf("shortPeriod = %q, want Mar 25", got)
	}
	if got := shortPeriod("bad"); got != "bad" {
		t.Fatalf("shortPeriod(bad) = %q", got)
	}
}

func TestCopyPreviousMonth(t *testing.T) {
	a := newTestApp(t, nil)
	if err := a.builder.SetFieldString("2025-February", "Rent", "1400"); err != nil {
		t.Fatal(err)
	}

	a = press(t, a, "c")
	if !a.stored || a.status.Error {
		t.Fatalf("stored = %v status = %+v", a.stored, a.status)
	}
	if v, _ := a.record.Expense("Rent"); v.StringFixed(2) != "1400.00" {
		t.Fatalf("Rent = %s, want 1400.00", v)
	}
	if len(a.history) != 2 {
		t.Fatalf("history has %d rows, want 2", len(a.history))
	}
}
