package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Appearance.Theme != "flexoki-dark" || cfg.Daemon.Addr != "127.0.0.1:8787" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Schema().Categories) != 7 {
		t.Fatalf("default schema has %d categories, want 7", len(cfg.Schema().Categories))
	}
}

func TestLoadFileCategoriesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[general]
default_period = "2025-mar"

[budget]
currency = "€"
outflow_fields = ["Rent", "savings"]

[[budget.categories]]
name = "Rent"
default = 950

[[budget.categories]]
name = "Coffee"
default = "12.50"

[budget.defaults]
income = 3200
debt = 0
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	s := cfg.Schema()
	if len(s.Categories) != 2 || s.Categories[1].Name != "Coffee" {
		t.Fatalf("categories = %+v", s.Categories)
	}
	if s.Categories[1].Default.StringFixed(2) != "12.50" {
		t.Fatalf("Coffee default = %s, want 12.50", s.Categories[1].Default)
	}
	if !s.Income.Equal(decimal.NewFromInt(3200)) || !s.Debt.IsZero() {
		t.Fatalf("defaults income=%s debt=%s", s.Income, s.Debt)
	}
	if !s.Savings.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unset savings default = %s, want built-in 500", s.Savings)
	}
	if got := cfg.StartPeriod(time.Now()); got != "2025-March" {
		t.Fatalf("StartPeriod = %s, want 2025-March", got)
	}
	if got := cfg.Outflow(); len(got) != 2 {
		t.Fatalf("Outflow = %v", got)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := DefaultConfig()
	neg := decimal.NewFromInt(-1)
	cfg.Budget.Categories = []CategoryConfig{
		{Name: "Rent", Default: decimal.NewFromInt(1)},
		{Name: "rent", Default: decimal.NewFromInt(1)},
		{Name: "", Default: decimal.Zero},
	}
	cfg.Budget.Defaults.Income = &neg
	cfg.Budget.OutflowFields = []string{"Income", "Vacation"}
	cfg.Daemon.EventsBuffer = -5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate returned nil")
	}
	for _, want := range []string{
		`duplicate category "rent"`,
		"name is empty",
		"budget.defaults.income",
		`unknown category "Income"`,
		`unknown category "Vacation"`,
		"events_buffer",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Validate error missing %q:\n%v", want, err)
		}
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Budget.Categories = []CategoryConfig{{Name: "Rent", Default: decimal.RequireFromString("1100.25")}}

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("theme = %q", got.Appearance.Theme)
	}
	if got.Budget.Categories[0].Default.StringFixed(2) != "1100.25" {
		t.Fatalf("category default = %s", got.Budget.Categories[0].Default)
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("BUDGETDASH_THEME", "terminal")
	t.Setenv("BUDGETDASH_ADDR", "127.0.0.1:9999")
	t.Setenv("BUDGETDASH_SHEET", "/tmp/sheet.toml")

	if GetTheme(cfg) != "terminal" || GetDaemonAddr(cfg) != "127.0.0.1:9999" || GetSheet(cfg) != "/tmp/sheet.toml" {
		t.Fatalf("env overrides not applied")
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigPath(); got != filepath.Join("/xdg", "budgetdash", "config.toml") {
		t.Fatalf("ConfigPath = %s", got)
	}
}
