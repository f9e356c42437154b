package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "One row per recorded month",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	b, err := loadSession()
	if err != nil {
		return err
	}

	rows := budget.History(b.Store())
	if len(rows) == 0 {
		fmt.Println("\n  No months recorded.")
		fmt.Println(cli.RenderMuted("  Import a sheet with --sheet, or enter figures in the dashboard."))
		return nil
	}

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Period.String(),
			cli.FormatMoney(r.Income),
			cli.FormatMoney(r.TotalExpenses),
			cli.FormatMoney(r.Savings),
			cli.FormatMoney(r.LeftToBudget),
			cli.FormatMoney(r.Investments),
			cli.FormatMoney(r.NetWorth),
			cli.FormatMoney(r.Debt),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HISTORY  %d months", len(rows))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Expenses", "Savings", "Left", "Investments", "Net Worth", "Debt"},
		Rows:    tableRows,
	}))
	return nil
}
