package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
)

var flagOutflow []string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget figures for one month",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringSliceVar(&flagOutflow, "outflow", nil, "Fields counted as outflow (default: config, or every category plus savings)")
	rootCmd.AddCommand(summaryCmd)
}

// summaryOutflow picks the outflow set: --outflow, then config, then
// every category plus savings.
func summaryOutflow(schema model.Schema) []string {
	if len(flagOutflow) > 0 {
		return flagOutflow
	}
	if outflow := appCfg.Outflow(); outflow != nil {
		return outflow
	}
	return budget.DefaultOutflowFields(schema)
}

func runSummary(_ *cobra.Command, _ []string) error {
	b, err := loadSession()
	if err != nil {
		return err
	}
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	_, stored := b.Store().Get(period)
	rec := b.GetRecord(period)
	sum, err := budget.Summarize(rec, summaryOutflow(b.Schema()))
	if err != nil {
		return fmt.Errorf("computing outflow: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  " + period.String()))
	fmt.Println()
	if !stored {
		fmt.Println(cli.RenderWarning("Nothing recorded for this month yet, showing defaults."))
		fmt.Println()
	}

	rows := [][]string{
		{"Income", cli.FormatMoney(sum.Income)},
		{"Total Expenses", cli.FormatMoney(sum.TotalExpenses)},
		{"Savings", cli.FormatMoney(sum.Savings)},
		{"---"},
		{"Left to Budget", cli.FormatMoney(sum.LeftToBudget)},
		{"Total Outflow", cli.FormatMoney(sum.TotalOutflow)},
		{"Remaining", cli.FormatMoney(sum.Remaining)},
		{"Balance", cli.FormatMoney(sum.Balance)},
		{"Savings Rate", cli.FormatPercent(sum.SavingsRate)},
		{"---"},
		{"Investments", cli.FormatMoney(sum.Investments)},
		{"Net Worth", cli.FormatMoney(sum.NetWorth)},
		{"Debt", cli.FormatMoney(sum.Debt)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Print(cli.RenderBreakdown("Expenses", sum.Breakdown, 30))

	fmt.Println()
	fmt.Printf("  Left to budget: %s\n", cli.RenderSigned(sum.LeftToBudget))
	if sum.LeftToBudget.IsNegative() {
		fmt.Println(cli.RenderWarning("Over budget by " + cli.FormatMoney(sum.LeftToBudget.Neg())))
	}
	return nil
}
