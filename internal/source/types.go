package source

import (
	"fmt"
	"strconv"
)

// RawSheet is the decoded form of a budget sheet file.
type RawSheet struct {
	Periods []RawPeriod `toml:"period"`
}

// RawPeriod holds the figures a sheet declares for one period. Fields left
// out of the sheet keep their current or default value.
type RawPeriod struct {
	Key         string               `toml:"key"`
	Income      *RawAmount           `toml:"income"`
	Savings     *RawAmount           `toml:"savings"`
	Investments *RawAmount           `toml:"investments"`
	NetWorth    *RawAmount           `toml:"net_worth"`
	Debt        *RawAmount           `toml:"debt"`
	Expenses    map[string]RawAmount `toml:"expenses"`
	LineItems   []RawLineItem        `toml:"line_items"`
}

// RawLineItem is one projected-versus-actual entry.
type RawLineItem struct {
	Category  string    `toml:"category"`
	Projected RawAmount `toml:"projected"`
	Actual    RawAmount `toml:"actual"`
}

// RawAmount keeps an amount exactly as written so it can go through the
// same parsing as interactive input. Sheets may use bare numbers or
// strings such as "1,200.50".
type RawAmount struct {
	Text string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (a *RawAmount) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		a.Text = t
	case int64:
		a.Text = strconv.FormatInt(t, 10)
	case float64:
		a.Text = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Errorf("amount: unsupported value %v (%T)", v, v)
	}
	return nil
}

// DiscoveredFile represents a budget sheet found during scanning.
type DiscoveredFile struct {
	Path string
	Name string // file name without extension
}
