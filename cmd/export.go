package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/export"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a month as CSV, or every month into a SQLite archive",
	Long: "With --format csv (the default) the selected month is written as " +
		"budget_summary_<period>.csv, or to stdout with --out -.\n" +
		"With --format sqlite every recorded month is written into an archive database.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "Output format: csv or sqlite")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output path, - for stdout (csv only)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	b, err := loadSession()
	if err != nil {
		return err
	}

	switch flagExportFormat {
	case "csv":
		period, err := selectedPeriod()
		if err != nil {
			return err
		}
		return exportCSV(b.GetRecord(period), flagExportOut)
	case "sqlite":
		out := flagExportOut
		if out == "" {
			out = "budgetdash.db"
		}
		return exportArchive(b.Store(), out)
	default:
		return fmt.Errorf("unknown export format %q (want csv or sqlite)", flagExportFormat)
	}
}

func exportCSV(rec model.InputRecord, out string) (err error) {
	if out == "-" {
		return export.WriteCSV(os.Stdout, rec)
	}
	if out == "" {
		out = export.Filename(rec.Period)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(out) //nolint:gosec // output path is the user's own flag
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := export.WriteCSV(f, rec); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", out)
	}
	return nil
}

func exportArchive(s *store.BudgetStore, out string) error {
	records := s.Records()
	if len(records) == 0 {
		return fmt.Errorf("nothing to archive: no months recorded")
	}

	archive, err := store.OpenArchive(out)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	if err := archive.SavePeriods(records, budget.HistoryRows(records)); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	n, err := archive.PeriodCount()
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Archived %d months to %s (%d total)\n", len(records), out, n)
	}
	return nil
}
