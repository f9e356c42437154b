// Package budget derives totals from period records and validates writes
// into the session store.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

var hundred = decimal.NewFromInt(100)

// TotalExpenses sums every expense field in declaration order.
func TotalExpenses(r model.InputRecord) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// DefaultOutflowFields is the outflow set used when none is configured:
// every declared category plus savings.
func DefaultOutflowFields(schema model.Schema) []string {
	return append(schema.CategoryNames(), model.FieldSavings)
}

// TotalOutflow sums the named subset of a record's fields. Names resolve
// against the record's expense categories first, then against the scalar
// fields other than income. A name repeated under any spelling counts
// once.
func TotalOutflow(r model.InputRecord, fields []string) (decimal.Decimal, error) {
	total := decimal.Zero
	seen := make(map[string]struct{}, len(fields))

	for _, name := range fields {
		key := model.NormalizeName(name)
		if _, dup := seen[key]; dup {
			continue
		}

		if v, ok := r.Expense(name); ok {
			seen[key] = struct{}{}
			total = total.Add(v)
			continue
		}
		if key != model.FieldIncome {
			if v, ok := r.Scalar(name); ok {
				seen[key] = struct{}{}
				total = total.Add(v)
				continue
			}
		}
		return decimal.Zero, model.UnknownCategory(name)
	}
	return total, nil
}

// Remaining is income minus total outflow. It may be negative.
func Remaining(income, totalOutflow decimal.Decimal) decimal.Decimal {
	return income.Sub(totalOutflow)
}

// LeftToBudget is income minus total expenses minus savings.
func LeftToBudget(income, totalExpenses, savings decimal.Decimal) decimal.Decimal {
	return income.Sub(totalExpenses).Sub(savings)
}

// Balance is income minus total expenses.
func Balance(income, totalExpenses decimal.Decimal) decimal.Decimal {
	return income.Sub(totalExpenses)
}

// SavingsRate returns savings as a percentage of income, or zero when
// there is no income.
func SavingsRate(savings, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return savings.Div(income).Mul(hundred)
}

// ExpenseBreakdown lists each expense in declaration order.
func ExpenseBreakdown(r model.InputRecord) []model.CategoryAmount {
	out := make([]model.CategoryAmount, len(r.Expenses))
	for i, e := range r.Expenses {
		out[i] = model.CategoryAmount{Category: e.Name, Amount: e.Amount}
	}
	return out
}

// LineItemDifferences returns the items with Difference set to
// projected minus actual. The input is not modified.
func LineItemDifferences(items []model.ExpenseLineItem) []model.ExpenseLineItem {
	out := make([]model.ExpenseLineItem, len(items))
	for i, it := range items {
		it.Difference = it.Projected.Sub(it.Actual)
		out[i] = it
	}
	return out
}

// HistoryRow flattens one record into a history line.
func HistoryRow(r model.InputRecord) model.HistoryRow {
	total := TotalExpenses(r)
	return model.HistoryRow{
		Period:        r.Period,
		Income:        r.Income,
		TotalExpenses: total,
		Savings:       r.Savings,
		Investments:   r.Investments,
		NetWorth:      r.NetWorth,
		Debt:          r.Debt,
		LeftToBudget:  LeftToBudget(r.Income, total, r.Savings),
	}
}

// HistoryRows flattens records, preserving their order.
func HistoryRows(records []model.InputRecord) []model.HistoryRow {
	rows := make([]model.HistoryRow, len(records))
	for i, r := range records {
		rows[i] = HistoryRow(r)
	}
	return rows
}

// History returns one row per stored period in first-touch order.
func History(s *store.BudgetStore) []model.HistoryRow {
	return HistoryRows(s.Records())
}

// Summarize computes every derived figure for a record in one pass.
func Summarize(r model.InputRecord, outflowFields []string) (model.Summary, error) {
	outflow, err := TotalOutflow(r, outflowFields)
	if err != nil {
		return model.Summary{}, err
	}

	total := TotalExpenses(r)
	return model.Summary{
		Period:        r.Period,
		Income:        r.Income,
		TotalExpenses: total,
		TotalOutflow:  outflow,
		Remaining:     Remaining(r.Income, outflow),
		LeftToBudget:  LeftToBudget(r.Income, total, r.Savings),
		Balance:       Balance(r.Income, total),
		SavingsRate:   SavingsRate(r.Savings, r.Income),
		Savings:       r.Savings,
		Investments:   r.Investments,
		NetWorth:      r.NetWorth,
		Debt:          r.Debt,
		Breakdown:     ExpenseBreakdown(r),
	}, nil
}
