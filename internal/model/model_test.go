package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParsePeriodKey(t *testing.T) {
	tests := []struct {
		in        string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"2025-March", 2025, time.March, false},
		{"2025-march", 2025, time.March, false},
		{"2024-Dec", 2024, time.December, false},
		{" 2026-January ", 2026, time.January, false},
		{"2025", 0, 0, true},
		{"March-2025", 0, 0, true},
		{"2025-Smarch", 0, 0, true},
	}
	for _, tt := range tests {
		y, m, err := ParsePeriodKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePeriodKey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && (y != tt.wantYear || m != tt.wantMonth) {
			t.Fatalf("ParsePeriodKey(%q) = %d-%s, want %d-%s", tt.in, y, m, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPeriodKeyShiftAndCanonical(t *testing.T) {
	if got := NewPeriodKey(2025, time.December).Shift(1); got != "2026-January" {
		t.Fatalf("Shift(1) = %s, want 2026-January", got)
	}
	if got := NewPeriodKey(2025, time.January).Shift(-1); got != "2024-December" {
		t.Fatalf("Shift(-1) = %s, want 2024-December", got)
	}
	if got := PeriodKey("2025-mar").Canonical(); got != "2025-March" {
		t.Fatalf("Canonical() = %s, want 2025-March", got)
	}
	if got := PeriodKey("q1-plan").Shift(3); got != "q1-plan" {
		t.Fatalf("Shift on free-form key = %s, want unchanged", got)
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := NegativeAmount("Rent")
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("errors.Is(%v, ErrNegativeAmount) = false", err)
	}
	if errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("negative amount matched ErrUnknownCategory")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Name != "Rent" {
		t.Fatalf("errors.As name = %+v, want Rent", ve)
	}
}

func TestRecordFieldAccess(t *testing.T) {
	r := DefaultSchema().NewRecord("2025-March")

	if v, ok := r.Expense("car-payment"); !ok || !v.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("Expense(car-payment) = %s, %v; want 300, true", v, ok)
	}
	r.SetExpense("Car Payment", decimal.NewFromInt(320))
	if len(r.Expenses) != 7 {
		t.Fatalf("len(Expenses) = %d after overwrite, want 7", len(r.Expenses))
	}
	if !r.SetScalar("Net Worth", decimal.NewFromInt(1)) || !r.NetWorth.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("SetScalar(Net Worth) did not update NetWorth")
	}
	if r.SetScalar("Rent", decimal.Zero) {
		t.Fatalf("SetScalar(Rent) = true, want false")
	}

	c := r.Clone()
	c.Expenses[0].Amount = decimal.NewFromInt(9)
	if r.Expenses[0].Amount.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("Clone shares expense storage")
	}
}

func TestSchemaResolve(t *testing.T) {
	s := DefaultSchema()
	tests := []struct {
		in        string
		canonical string
		scalar    bool
		ok        bool
	}{
		{"Income", FieldIncome, true, true},
		{"net worth", FieldNetWorth, true, true},
		{"other_expenses", "Other Expenses", false, true},
		{"Vacation", "", false, false},
	}
	for _, tt := range tests {
		c, scalar, ok := s.Resolve(tt.in)
		if c != tt.canonical || scalar != tt.scalar || ok != tt.ok {
			t.Fatalf("Resolve(%q) = %q, %v, %v; want %q, %v, %v", tt.in, c, scalar, ok, tt.canonical, tt.scalar, tt.ok)
		}
	}
}

func TestReadAccessorsOnReturnedRecord(t *testing.T) {
	if v, ok := DefaultSchema().NewRecord("2025-March").Expense("rent"); !ok || v.StringFixed(2) != "1200.00" {
		t.Fatalf("Expense(rent) = %s, %v; want 1200.00", v, ok)
	}
	if v, ok := DefaultSchema().NewRecord("2025-March").Scalar("Net Worth"); !ok || v.StringFixed(2) != "15000.00" {
		t.Fatalf("Scalar(Net Worth) = %s, %v; want 15000.00", v, ok)
	}
	if i := DefaultSchema().NewRecord("2025-March").ExpenseIndex("Gas"); i != 3 {
		t.Fatalf("ExpenseIndex(Gas) = %d, want 3", i)
	}
}
