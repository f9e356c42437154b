package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// Amounts travel as strings with two decimals so clients never see
// binary floating point.

// AmountView is one named amount.
type AmountView struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// LineItemView is one projected-versus-actual line.
type LineItemView struct {
	Category   string `json:"category"`
	Projected  string `json:"projected"`
	Actual     string `json:"actual"`
	Difference string `json:"difference"`
}

// SummaryView holds the derived figures for a period.
type SummaryView struct {
	Period        string `json:"period"`
	TotalExpenses string `json:"total_expenses"`
	TotalOutflow  string `json:"total_outflow"`
	Remaining     string `json:"remaining"`
	LeftToBudget  string `json:"left_to_budget"`
	Balance       string `json:"balance"`
	SavingsRate   string `json:"savings_rate"`
}

// RecordView is served at /v1/records/{period}.
type RecordView struct {
	Period      string         `json:"period"`
	Stored      bool           `json:"stored"`
	Income      string         `json:"income"`
	Expenses    []AmountView   `json:"expenses"`
	Savings     string         `json:"savings"`
	Investments string         `json:"investments"`
	NetWorth    string         `json:"net_worth"`
	Debt        string         `json:"debt"`
	LineItems   []LineItemView `json:"line_items"`
	Summary     SummaryView    `json:"summary"`
}

// HistoryRowView is one line of /v1/history.
type HistoryRowView struct {
	Period        string `json:"period"`
	Income        string `json:"income"`
	TotalExpenses string `json:"total_expenses"`
	Savings       string `json:"savings"`
	Investments   string `json:"investments"`
	NetWorth      string `json:"net_worth"`
	Debt          string `json:"debt"`
	LeftToBudget  string `json:"left_to_budget"`
}

// SetFieldRequest is the body of PUT /v1/records/{period}/fields/{field}.
// Value may be a JSON number or a string such as "1,200.50".
type SetFieldRequest struct {
	Value string `json:"value"`
}

// UnmarshalJSON accepts the value as either a JSON string or number.
func (r *SetFieldRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := bytes.TrimSpace(raw.Value)
	if len(v) > 0 && v[0] == '"' {
		return json.Unmarshal(v, &r.Value)
	}
	if string(v) == "null" {
		r.Value = ""
		return nil
	}
	r.Value = string(v)
	return nil
}

// LineItemInput is one element of PUT /v1/records/{period}/line-items.
type LineItemInput struct {
	Category  string `json:"category"`
	Projected string `json:"projected"`
	Actual    string `json:"actual"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// Event is emitted whenever a period changes.
type Event struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Period    string      `json:"period,omitempty"`
	Field     string      `json:"field,omitempty"`
	Summary   SummaryView `json:"summary"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Periods         int       `json:"periods"`
	Writes          int64     `json:"writes"`
	Rejected        int64     `json:"rejected"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

func summaryView(s model.Summary) SummaryView {
	return SummaryView{
		Period:        string(s.Period),
		TotalExpenses: s.TotalExpenses.StringFixed(2),
		TotalOutflow:  s.TotalOutflow.StringFixed(2),
		Remaining:     s.Remaining.StringFixed(2),
		LeftToBudget:  s.LeftToBudget.StringFixed(2),
		Balance:       s.Balance.StringFixed(2),
		SavingsRate:   s.SavingsRate.StringFixed(2),
	}
}

func lineItemViews(items []model.ExpenseLineItem) []LineItemView {
	out := make([]LineItemView, len(items))
	for i, it := range items {
		out[i] = LineItemView{
			Category:   it.Category,
			Projected:  it.Projected.StringFixed(2),
			Actual:     it.Actual.StringFixed(2),
			Difference: it.Difference.StringFixed(2),
		}
	}
	return out
}

func recordView(r model.InputRecord, stored bool, s model.Summary) RecordView {
	v := RecordView{
		Period:      string(r.Period),
		Stored:      stored,
		Income:      r.Income.StringFixed(2),
		Savings:     r.Savings.StringFixed(2),
		Investments: r.Investments.StringFixed(2),
		NetWorth:    r.NetWorth.StringFixed(2),
		Debt:        r.Debt.StringFixed(2),
		LineItems:   lineItemViews(r.LineItems),
		Summary:     summaryView(s),
	}
	v.Expenses = make([]AmountView, len(r.Expenses))
	for i, e := range r.Expenses {
		v.Expenses[i] = AmountView{Name: e.Name, Amount: e.Amount.StringFixed(2)}
	}
	return v
}

func historyViews(rows []model.HistoryRow) []HistoryRowView {
	out := make([]HistoryRowView, len(rows))
	for i, r := range rows {
		out[i] = HistoryRowView{
			Period:        string(r.Period),
			Income:        r.Income.StringFixed(2),
			TotalExpenses: r.TotalExpenses.StringFixed(2),
			Savings:       r.Savings.StringFixed(2),
			Investments:   r.Investments.StringFixed(2),
			NetWorth:      r.NetWorth.StringFixed(2),
			Debt:          r.Debt.StringFixed(2),
			LeftToBudget:  r.LeftToBudget.StringFixed(2),
		}
	}
	return out
}

// ErrorKind returns the wire name of a validation error kind, or "" for
// other errors.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, model.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, model.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, model.ErrEmptyPeriod):
		return "empty_period"
	case errors.Is(err, model.ErrInvalidAmount):
		return "invalid_amount"
	}
	return ""
}
