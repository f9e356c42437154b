package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
)

func TestWriteCSV(t *testing.T) {
	r := model.DefaultSchema().NewRecord("2025-March")
	r.SetExpense("Gas", decimal.RequireFromString("199.999"))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := strings.Join([]string{
		"Category,Amount",
		"Income,5000.00",
		"Rent,1200.00",
		"Utilities,150.00",
		"Car Payment,300.00",
		"Gas,200.00",
		"Groceries,400.00",
		"Subscriptions,100.00",
		"Other Expenses,150.00",
		"Total Expenses,2500.00",
		"Savings,500.00",
		"Investments,10000.00",
		"Net Worth,15000.00",
		"Debt,3000.00",
	}, "\n") + "\n"

	if got := buf.String(); got != want {
		t.Fatalf("WriteCSV output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	r := model.InputRecord{
		Period:   "2025-March",
		Expenses: []model.ExpenseField{{Name: "Food, Drinks", Amount: decimal.NewFromInt(3)}},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), `"Food, Drinks",3.00`) {
		t.Fatalf("category with comma not quoted:\n%s", buf.String())
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in   model.PeriodKey
		want string
	}{
		{"2025-March", "budget_summary_2025-March.csv"},
		{"2025/03", "budget_summary_2025_03.csv"},
		{`a\b:c`, "budget_summary_a_b_c.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.in); got != tt.want {
			t.Fatalf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
