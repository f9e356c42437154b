package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/budgetdash/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Archive is a SQLite file that session history can be exported into for
// analysis with other tools. It is write-mostly: the dashboard never
// restores its state from an archive.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates the archive database at the given path.
func OpenArchive(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SavePeriods writes the history rows and their source records in one
// transaction, replacing any earlier archive of the same periods.
// records and rows must be parallel slices.
func (a *Archive) SavePeriods(records []model.InputRecord, rows []model.HistoryRow) error {
	if len(records) != len(rows) {
		return fmt.Errorf("archive: %d records but %d history rows", len(records), len(rows))
	}

	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	for i, row := range rows {
		key := string(row.Period)
		_, err = tx.Exec(`INSERT OR REPLACE INTO periods
			(period_key, position, income, total_expenses, savings, investments,
			 net_worth, debt, left_to_budget, archived_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key, i, row.Income.StringFixed(2), row.TotalExpenses.StringFixed(2),
			row.Savings.StringFixed(2), row.Investments.StringFixed(2),
			row.NetWorth.StringFixed(2), row.Debt.StringFixed(2),
			row.LeftToBudget.StringFixed(2), now,
		)
		if err != nil {
			return fmt.Errorf("archiving %s: %w", key, err)
		}

		if _, err = tx.Exec("DELETE FROM period_expenses WHERE period_key = ?", key); err != nil {
			return err
		}
		for pos, e := range records[i].Expenses {
			_, err = tx.Exec(`INSERT INTO period_expenses (period_key, position, category, amount)
				VALUES (?, ?, ?, ?)`, key, pos, e.Name, e.Amount.StringFixed(2))
			if err != nil {
				return fmt.Errorf("archiving %s expense %q: %w", key, e.Name, err)
			}
		}

		if _, err = tx.Exec("DELETE FROM line_items WHERE period_key = ?", key); err != nil {
			return err
		}
		for pos, li := range records[i].LineItems {
			_, err = tx.Exec(`INSERT INTO line_items
				(period_key, position, category, projected, actual, difference)
				VALUES (?, ?, ?, ?, ?, ?)`,
				key, pos, li.Category, li.Projected.StringFixed(2),
				li.Actual.StringFixed(2), li.Difference.StringFixed(2))
			if err != nil {
				return fmt.Errorf("archiving %s line item %q: %w", key, li.Category, err)
			}
		}
	}

	return tx.Commit()
}

// PeriodCount returns the number of archived periods.
func (a *Archive) PeriodCount() (int, error) {
	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM periods").Scan(&count)
	return count, err
}
