package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// ParseAmount parses a money amount as typed into a form. It accepts an
// optional currency symbol on either side of a leading minus, grouping
// commas ("1,200" and "1,200.50"), and a decimal comma when no dot is
// present and the comma is not followed by exactly three digits ("12,34").
// The sign is kept so negative input can be reported as a negative
// amount rather than as unparseable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := stripCurrency(raw)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = stripCurrency(s[1:])
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}

	switch {
	case strings.Contains(s, ".") && strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", "")
	case grouped(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, ","):
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}
	if strings.ContainsAny(s, "+-eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	return strings.TrimSpace(s)
}

// grouped reports whether s uses commas as thousands separators: a
// leading group of one to three characters followed by groups of three.
func grouped(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
