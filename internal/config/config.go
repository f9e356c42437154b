package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// Config holds all budgetdash configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPeriod string `toml:"default_period,omitempty"`
	Sheet         string `toml:"sheet,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds settings for the background HTTP service.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Budget: BudgetConfig{
			Currency: "$",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetdash")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path, returning defaults if it doesn't
// exist.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flag or XDG dir
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Validate reports every problem in the config at once.
func (c Config) Validate() error {
	var problems []string

	seen := make(map[string]bool)
	for i, cat := range c.Budget.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("budget.categories[%d]: name is empty", i))
			continue
		}
		key := normalize(name)
		if seen[key] {
			problems = append(problems, fmt.Sprintf("budget.categories: duplicate category %q", name))
		}
		seen[key] = true
		if cat.Default.IsNegative() {
			problems = append(problems, fmt.Sprintf("budget.categories: %q default must not be negative", name))
		}
	}

	for _, d := range c.Budget.Defaults.fields() {
		if d.value != nil && d.value.IsNegative() {
			problems = append(problems, fmt.Sprintf("budget.defaults.%s must not be negative", d.name))
		}
	}

	schema := c.Schema()
	for _, f := range c.Budget.OutflowFields {
		name, _, ok := schema.Resolve(f)
		if !ok || name == model.FieldIncome {
			problems = append(problems, fmt.Sprintf("budget.outflow_fields: unknown category %q", f))
		}
	}

	if c.Daemon.EventsBuffer < 0 {
		problems = append(problems, fmt.Sprintf("daemon.events_buffer %d must not be negative", c.Daemon.EventsBuffer))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// GetTheme returns the theme from env var or config, in that order.
func GetTheme(cfg Config) string {
	if v := os.Getenv("BUDGETDASH_THEME"); v != "" {
		return v
	}
	return cfg.Appearance.Theme
}

// GetDaemonAddr returns the daemon address from env var or config.
func GetDaemonAddr(cfg Config) string {
	if v := os.Getenv("BUDGETDASH_ADDR"); v != "" {
		return v
	}
	return cfg.Daemon.Addr
}

// GetSheet returns the budget sheet path from env var or config.
func GetSheet(cfg Config) string {
	if v := os.Getenv("BUDGETDASH_SHEET"); v != "" {
		return v
	}
	return cfg.General.Sheet
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
