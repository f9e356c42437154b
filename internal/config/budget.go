package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// BudgetConfig holds the budget layout and how totals are computed.
type BudgetConfig struct {
	Currency      string           `toml:"currency"`
	OutflowFields []string         `toml:"outflow_fields,omitempty"`
	Categories    []CategoryConfig `toml:"categories,omitempty"`
	Defaults      DefaultsConfig   `toml:"defaults"`
}

// CategoryConfig declares one expense category.
type CategoryConfig struct {
	Name    string          `toml:"name"`
	Default decimal.Decimal `toml:"default"`
}

// DefaultsConfig overrides the starting values of new period records.
// Unset fields keep the built-in defaults.
type DefaultsConfig struct {
	Income      *decimal.Decimal `toml:"income,omitempty"`
	Savings     *decimal.Decimal `toml:"savings,omitempty"`
	Investments *decimal.Decimal `toml:"investments,omitempty"`
	NetWorth    *decimal.Decimal `toml:"net_worth,omitempty"`
	Debt        *decimal.Decimal `toml:"debt,omitempty"`
}

type namedDefault struct {
	name  string
	value *decimal.Decimal
}

func (d DefaultsConfig) fields() []namedDefault {
	return []namedDefault{
		{model.FieldIncome, d.Income},
		{model.FieldSavings, d.Savings},
		{model.FieldInvestments, d.Investments},
		{model.FieldNetWorth, d.NetWorth},
		{model.FieldDebt, d.Debt},
	}
}

// Schema builds the record layout described by the config. With no
// categories configured the built-in layout is used.
func (c Config) Schema() model.Schema {
	s := model.DefaultSchema()
	if len(c.Budget.Categories) > 0 {
		s.Categories = make([]model.Category, 0, len(c.Budget.Categories))
		for _, cat := range c.Budget.Categories {
			s.Categories = append(s.Categories, model.Category{Name: cat.Name, Default: cat.Default})
		}
	}

	d := c.Budget.Defaults
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Income, d.Income)
	set(&s.Savings, d.Savings)
	set(&s.Investments, d.Investments)
	set(&s.NetWorth, d.NetWorth)
	set(&s.Debt, d.Debt)
	return s
}

// Outflow returns the configured outflow fields, or nil when the
// default set should be used.
func (c Config) Outflow() []string {
	if len(c.Budget.OutflowFields) == 0 {
		return nil
	}
	return append([]string(nil), c.Budget.OutflowFields...)
}

// StartPeriod returns the configured default period, or the month
// containing now.
func (c Config) StartPeriod(now time.Time) model.PeriodKey {
	if c.General.DefaultPeriod != "" {
		return model.PeriodKey(c.General.DefaultPeriod).Canonical()
	}
	return model.CurrentPeriod(now)
}

func normalize(s string) string {
	return model.NormalizeName(s)
}
