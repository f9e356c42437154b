// Package export renders a period record as a downloadable CSV summary.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// Header is the first line of every export.
var Header = []string{"Category", "Amount"}

// Row is one category/amount line of the export.
type Row struct {
	Category string
	Amount   decimal.Decimal
}

// Rows lists the export lines for a record: income, each expense in
// declaration order, the expense total, then the balance-sheet fields.
func Rows(r model.InputRecord) []Row {
	rows := make([]Row, 0, len(r.Expenses)+6)
	rows = append(rows, Row{"Income", r.Income})
	for _, e := range r.Expenses {
		rows = append(rows, Row{e.Name, e.Amount})
	}
	rows = append(rows,
		Row{"Total Expenses", budget.TotalExpenses(r)},
		Row{"Savings", r.Savings},
		Row{"Investments", r.Investments},
		Row{"Net Worth", r.NetWorth},
		Row{"Debt", r.Debt},
	)
	return rows
}

// WriteCSV writes the record's export to w.
func WriteCSV(w io.Writer, r model.InputRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range Rows(r) {
		if err := cw.Write([]string{row.Category, row.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing csv row %s: %w", row.Category, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for a period's export. Characters
// that are unsafe in file names are replaced with underscores.
func Filename(period model.PeriodKey) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, string(period))
	return "budget_summary_" + safe + ".csv"
}
