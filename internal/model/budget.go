package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Scalar field names of an InputRecord. Expense categories are named by
// the schema.
const (
	FieldIncome      = "income"
	FieldSavings     = "savings"
	FieldInvestments = "investments"
	FieldNetWorth    = "net_worth"
	FieldDebt        = "debt"
)

// ScalarFields lists the non-expense fields in display order.
var ScalarFields = []string{FieldIncome, FieldSavings, FieldInvestments, FieldNetWorth, FieldDebt}

// NormalizeName folds a field or category name for comparison:
// lowercase, trimmed, spaces and hyphens become underscores.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
}

// ExpenseField is one named expense amount.
type ExpenseField struct {
	Name   string
	Amount decimal.Decimal
}

// InputRecord holds the raw figures entered for one period.
// Expenses keep their declaration order; total expenses are always derived.
type InputRecord struct {
	Period      PeriodKey
	Income      decimal.Decimal
	Expenses    []ExpenseField
	Savings     decimal.Decimal
	Investments decimal.Decimal
	NetWorth    decimal.Decimal
	Debt        decimal.Decimal
	LineItems   []ExpenseLineItem
}

// Clone returns a deep copy safe to hand to readers.
func (r InputRecord) Clone() InputRecord {
	out := r
	out.Expenses = append([]ExpenseField(nil), r.Expenses...)
	out.LineItems = append([]ExpenseLineItem(nil), r.LineItems...)
	return out
}

// ExpenseIndex returns the position of the named expense, or -1.
func (r InputRecord) ExpenseIndex(name string) int {
	key := NormalizeName(name)
	for i, e := range r.Expenses {
		if NormalizeName(e.Name) == key {
			return i
		}
	}
	return -1
}

// Expense returns the amount recorded for the named expense.
func (r InputRecord) Expense(name string) (decimal.Decimal, bool) {
	if i := r.ExpenseIndex(name); i >= 0 {
		return r.Expenses[i].Amount, true
	}
	return decimal.Zero, false
}

// SetExpense overwrites the named expense, appending it when absent.
func (r *InputRecord) SetExpense(name string, amount decimal.Decimal) {
	if i := r.ExpenseIndex(name); i >= 0 {
		r.Expenses[i].Amount = amount
		return
	}
	r.Expenses = append(r.Expenses, ExpenseField{Name: name, Amount: amount})
}

// scalar returns a pointer to the scalar field with the given
// normalized name, or nil.
func (r *InputRecord) scalar(key string) *decimal.Decimal {
	switch key {
	case FieldIncome:
		return &r.Income
	case FieldSavings:
		return &r.Savings
	case FieldInvestments:
		return &r.Investments
	case FieldNetWorth:
		return &r.NetWorth
	case FieldDebt:
		return &r.Debt
	}
	return nil
}

// Scalar returns the value of a scalar field by name.
func (r InputRecord) Scalar(name string) (decimal.Decimal, bool) {
	if p := r.scalar(NormalizeName(name)); p != nil {
		return *p, true
	}
	return decimal.Zero, false
}

// SetScalar overwrites a scalar field. It reports false for names that
// are not scalar fields.
func (r *InputRecord) SetScalar(name string, v decimal.Decimal) bool {
	p := r.scalar(NormalizeName(name))
	if p == nil {
		return false
	}
	*p = v
	return true
}

// ExpenseLineItem compares a projected amount with the actual spend.
type ExpenseLineItem struct {
	Category   string
	Projected  decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
}
