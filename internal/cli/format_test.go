package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-20", "-$20.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"45", "$45"},
		{"1500", "$1.5K"},
		{"2300000", "$2.3M"},
	}
	for _, tt := range tests {
		if got := FormatCompact(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("FormatCompact(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDeltaAndPercent(t *testing.T) {
	if got := FormatDelta(decimal.NewFromInt(10)); got != "+$10.00" {
		t.Fatalf("FormatDelta(10) = %q", got)
	}
	if got := FormatDelta(decimal.NewFromInt(-10)); got != "-$10.00" {
		t.Fatalf("FormatDelta(-10) = %q", got)
	}
	if got := FormatPercent(decimal.RequireFromString("12.345")); got != "12.3%" {
		t.Fatalf("FormatPercent = %q, want 12.3%%", got)
	}
}

func TestRenderTableSeparatorAndAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Income", "$5,000.00"},
			{"---"},
			{"Savings", "$500.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top, header, header sep, row, sep, row, bottom
	if len(lines) != 7 {
		t.Fatalf("RenderTable produced %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[5], "  $500.00 ") {
		t.Fatalf("amount column not right-aligned: %q", lines[5])
	}
}

func TestRenderBreakdownOrder(t *testing.T) {
	out := RenderBreakdown("Expenses", []model.CategoryAmount{
		{Category: "Rent", Amount: decimal.NewFromInt(1200)},
		{Category: "Gas", Amount: decimal.NewFromInt(200)},
	}, 20)

	rent := strings.Index(out, "Rent")
	gas := strings.Index(out, "Gas")
	if rent < 0 || gas < 0 || rent > gas {
		t.Fatalf("breakdown lost declaration order:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 20)) {
		t.Fatalf("largest category should fill the bar:\n%s", out)
	}
}
