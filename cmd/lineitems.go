package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/cli"
)

var lineItemsCmd = &cobra.Command{
	Use:     "lineitems",
	Aliases: []string{"line-items"},
	Short:   "Projected versus actual spending for one month",
	RunE:    runLineItems,
}

func init() {
	rootCmd.AddCommand(lineItemsCmd)
}

func runLineItems(_ *cobra.Command, _ []string) error {
	b, err := loadSession()
	if err != nil {
		return err
	}
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	items := b.GetRecord(period).LineItems
	if len(items) == 0 {
		fmt.Printf("\n  No line items for %s.\n", period)
		return nil
	}

	var projected, actual, diff decimal.Decimal
	rows := make([][]string, 0, len(items)+2)
	for _, it := range items {
		rows = append(rows, []string{
			it.Category,
			cli.FormatMoney(it.Projected),
			cli.FormatMoney(it.Actual),
			cli.FormatDelta(it.Difference),
		})
		projected = projected.Add(it.Projected)
		actual = actual.Add(it.Actual)
		diff = diff.Add(it.Difference)
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total", cli.FormatMoney(projected), cli.FormatMoney(actual), cli.FormatDelta(diff)},
	)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Projected vs Actual  " + period.String(),
		Headers: []string{"Category", "Projected", "Actual", "Difference"},
		Rows:    rows,
	}))
	if diff.IsNegative() {
		fmt.Println(cli.RenderWarning("Spent " + cli.FormatMoney(diff.Neg()) + " more than projected"))
	}
	return nil
}
