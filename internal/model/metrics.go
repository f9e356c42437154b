package model

import "github.com/shopspring/decimal"

// Summary holds every derived figure for one period.
type Summary struct {
	Period        PeriodKey
	Income        decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalOutflow  decimal.Decimal
	Remaining     decimal.Decimal
	LeftToBudget  decimal.Decimal
	Balance       decimal.Decimal // income minus total expenses
	SavingsRate   decimal.Decimal // percent, 0 when income is zero
	Savings       decimal.Decimal
	Investments   decimal.Decimal
	NetWorth      decimal.Decimal
	Debt          decimal.Decimal
	Breakdown     []CategoryAmount
}

// CategoryAmount is one bar of the expense breakdown.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// HistoryRow is one line of the per-period history table.
type HistoryRow struct {
	Period        PeriodKey
	Income        decimal.Decimal
	TotalExpenses decimal.Decimal
	Savings       decimal.Decimal
	Investments   decimal.Decimal
	NetWorth      decimal.Decimal
	Debt          decimal.Decimal
	LeftToBudget  decimal.Decimal
}
