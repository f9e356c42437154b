package budget

import (
	"errors"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

func newTestBuilder() *Builder {
	return NewBuilder(store.New(), model.DefaultSchema())
}

func TestSetFieldCreatesRecordWithDefaults(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetField("2025-March", "Rent", dec("1300")); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	r := b.GetRecord("2025-March")
	if v, _ := r.Expense("Rent"); !v.Equal(dec("1300")) {
		t.Fatalf("Rent = %s, want 1300", v)
	}
	if !r.Income.Equal(dec("5000")) {
		t.Fatalf("Income = %s, want default 5000", r.Income)
	}
}

func TestSetFieldOverwrites(t *testing.T) {
	b := newTestBuilder()
	_ = b.SetField("2025-January", "income", dec("5000"))
	_ = b.SetField("2025-January", "Income", dec("5200"))

	if b.Store().Len() != 1 {
		t.Fatalf("store has %d records, want 1", b.Store().Len())
	}
	if got := b.GetRecord("2025-January").Income; !got.Equal(dec("5200")) {
		t.Fatalf("Income = %s, want 5200", got)
	}
}

func TestSetFieldRejectsNegative(t *testing.T) {
	b := newTestBuilder()
	_ = b.SetField("2025-March", "Rent", dec("1200"))

	err := b.SetField("2025-March", "rent", dec("-50"))
	var ve *model.ValidationError
	if !errors.Is(err, model.ErrNegativeAmount) || !errors.As(err, &ve) || ve.Name != "Rent" {
		t.Fatalf("SetField(-50) err = %v, want NegativeAmount(Rent)", err)
	}
	if v, _ := b.GetRecord("2025-March").Expense("Rent"); !v.Equal(dec("1200")) {
		t.Fatalf("Rent after rejected write = %s, want 1200", v)
	}
}

func TestSetFieldRejectedWriteDoesNotCreate(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetField("2025-March", "Savings", dec("-1")); err == nil {
		t.Fatalf("SetField(-1) returned nil")
	}
	if b.Store().Len() != 0 {
		t.Fatalf("rejected write created a record")
	}
}

func TestSetFieldErrors(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetField("2025-March", "Vacation", dec("1")); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("unknown field err = %v, want ErrUnknownField", err)
	}
	if err := b.SetField("", "Rent", dec("1")); !errors.Is(err, model.ErrEmptyPeriod) {
		t.Fatalf("empty period err = %v, want ErrEmptyPeriod", err)
	}
}

func TestSetFieldString(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetFieldString("2025-March", "Net Worth", "$16,000.50"); err != nil {
		t.Fatalf("SetFieldString: %v", err)
	}
	if got := b.GetRecord("2025-March").NetWorth; got.StringFixed(2) != "16000.50" {
		t.Fatalf("NetWorth = %s, want 16000.50", got.StringFixed(2))
	}
	if err := b.SetFieldString("2025-March", "Debt", "-20"); !errors.Is(err, model.ErrNegativeAmount) {
		t.Fatalf("negative string err = %v, want ErrNegativeAmount", err)
	}
	if err := b.SetFieldString("2025-March", "Debt", "$-20"); !errors.Is(err, model.ErrNegativeAmount) {
		t.Fatalf("negative after symbol err = %v, want ErrNegativeAmount", err)
	}
	if err := b.SetFieldString("2025-March", "Rent", "1,350"); err != nil {
		t.Fatalf("grouped amount: %v", err)
	}
	if v, _ := b.GetRecord("2025-March").Expense("Rent"); v.StringFixed(2) != "1350.00" {
		t.Fatalf("Rent = %s, want 1350.00", v.StringFixed(2))
	}
	if err := b.SetFieldString("2025-March", "Debt", "abc"); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("garbage string err = %v, want ErrInvalidAmount", err)
	}
}

func TestGetRecordDoesNotInsert(t *testing.T) {
	b := newTestBuilder()
	r := b.GetRecord("2030-May")
	if r.Period != "2030-May" || len(r.Expenses) != 7 {
		t.Fatalf("GetRecord default = %+v", r)
	}
	if b.Store().Len() != 0 {
		t.Fatalf("GetRecord inserted a record")
	}
}

func TestTouchIdempotent(t *testing.T) {
	b := newTestBuilder()
	first, err := b.Touch("2025-March")
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	second, _ := b.Touch("2025-March")

	if b.Store().Len() != 1 {
		t.Fatalf("store has %d records after two touches, want 1", b.Store().Len())
	}
	if !TotalExpenses(first).Equal(TotalExpenses(second)) || !first.Income.Equal(second.Income) {
		t.Fatalf("second Touch changed the record")
	}
}

func TestSetLineItems(t *testing.T) {
	b := newTestBuilder()
	items := []model.ExpenseLineItem{
		{Category: "Groceries", Projected: dec("300"), Actual: dec("290")},
		{Category: "Utilities", Projected: dec("100"), Actual: dec("110")},
	}
	got, err := b.SetLineItems("2025-March", items)
	if err != nil {
		t.Fatalf("SetLineItems: %v", err)
	}
	if got[1].Difference.StringFixed(2) != "-10.00" {
		t.Fatalf("Utilities difference = %s, want -10.00", got[1].Difference.StringFixed(2))
	}
	if stored := b.GetRecord("2025-March").LineItems; len(stored) != 2 {
		t.Fatalf("stored %d line items, want 2", len(stored))
	}

	bad := []model.ExpenseLineItem{{Category: "Gas", Projected: dec("-1"), Actual: dec("0")}}
	if _, err := b.SetLineItems("2025-March", bad); !errors.Is(err, model.ErrNegativeAmount) {
		t.Fatalf("negative line item err = %v, want ErrNegativeAmount", err)
	}
	if stored := b.GetRecord("2025-March").LineItems; len(stored) != 2 {
		t.Fatalf("rejected line items replaced stored ones")
	}
}

func TestCopyPeriod(t *testing.T) {
	b := newTestBuilder()
	_ = b.SetField("2025-February", "Groceries", dec("450"))
	_ = b.SetField("2025-March", "income", dec("6000"))
	if _, err := b.SetLineItems("2025-February", []model.ExpenseLineItem{
		{Category: "Gas", Projected: dec("200"), Actual: dec("180")},
	}); err != nil {
		t.Fatal(err)
	}

	rec, err := b.CopyPeriod("2025-February", "2025-March")
	if err != nil {
		t.Fatalf("CopyPeriod: %v", err)
	}
	if rec.Period != "2025-March" || len(rec.LineItems) != 0 {
		t.Fatalf("copied record = %+v", rec)
	}

	got := b.GetRecord("2025-March")
	if v, _ := got.Expense("Groceries"); !v.Equal(dec("450")) {
		t.Fatalf("Groceries = %s, want 450", v)
	}
	if !got.Income.Equal(dec("5000")) {
		t.Fatalf("Income = %s, want 5000 copied over 6000", got.Income)
	}

	keys := b.Store().Keys()
	if len(keys) != 2 || keys[1] != "2025-March" {
		t.Fatalf("keys = %v, want March to keep its position", keys)
	}

	if _, err := b.CopyPeriod("2025-February", ""); !errors.Is(err, model.ErrEmptyPeriod) {
		t.Fatalf("err = %v, want ErrEmptyPeriod", err)
	}
}
