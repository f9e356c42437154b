package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/client"
	"github.com/theirongolddev/budgetdash/internal/daemon"
	"github.com/theirongolddev/budgetdash/internal/model"
)

var (
	flagRemoteAddr    string
	flagShowHistory   bool
	flagShowCSV       bool
	flagSetItemRemove bool
)

var setCmd = &cobra.Command{
	Use:   "set <field> <amount>",
	Short: "Set one field of a month on the running daemon",
	Example: "  budgetdash set income 5200 --period 2025-January\n" +
		"  budgetdash set \"Car Payment\" 310.50",
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a month as the running daemon sees it",
	RunE:  runShow,
}

var setItemCmd = &cobra.Command{
	Use:   "set-item <category> [<projected> <actual>]",
	Short: "Add, replace or remove a projected-vs-actual line item on the running daemon",
	Example: "  budgetdash set-item Groceries 400 380\n" +
		"  budgetdash set-item Groceries --remove",
	Args: func(cmd *cobra.Command, args []string) error {
		if flagSetItemRemove {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(3)(cmd, args)
	},
	RunE: runSetItem,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowHistory, "history", false, "List every month the daemon holds")
	showCmd.Flags().BoolVar(&flagShowCSV, "csv", false, "Print the month's CSV export")
	setItemCmd.Flags().BoolVar(&flagSetItemRemove, "remove", false, "Remove the category's line item")

	for _, c := range []*cobra.Command{setCmd, showCmd, setItemCmd} {
		c.Flags().StringVar(&flagRemoteAddr, "addr", "", "Daemon address (default: config, 127.0.0.1:8787)")
		rootCmd.AddCommand(c)
	}
}

func remoteClient() *client.Client {
	addr := flagRemoteAddr
	if addr == "" {
		addr = daemonAddr()
	}
	return client.New(addr)
}

func runSet(cmd *cobra.Command, args []string) error {
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	rec, err := remoteClient().SetField(ctx, period, args[0], args[1])
	if err != nil {
		return explainRemoteError(err)
	}
	printRemoteRecord(rec)
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	c := remoteClient()

	switch {
	case flagShowHistory:
		rows, err := c.History(ctx)
		if err != nil {
			return explainRemoteError(err)
		}
		printRemoteHistory(rows)
	case flagShowCSV:
		if err := c.Export(ctx, period, os.Stdout); err != nil {
			return explainRemoteError(err)
		}
	default:
		rec, err := c.Record(ctx, period)
		if err != nil {
			return explainRemoteError(err)
		}
		printRemoteRecord(rec)
	}
	return nil
}

// runSetItem reads the month's line items, upserts or removes one by
// category and writes the list back.
func runSetItem(cmd *cobra.Command, args []string) error {
	period, err := selectedPeriod()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	c := remoteClient()

	rec, err := c.Record(ctx, period)
	if err != nil {
		return explainRemoteError(err)
	}

	key := model.NormalizeName(args[0])
	items := make([]daemon.LineItemInput, 0, len(rec.LineItems)+1)
	found := false
	for _, it := range rec.LineItems {
		if model.NormalizeName(it.Category) != key {
			items = append(items, daemon.LineItemInput{Category: it.Category, Projected: it.Projected, Actual: it.Actual})
			continue
		}
		found = true
		if !flagSetItemRemove {
			items = append(items, daemon.LineItemInput{Category: it.Category, Projected: args[1], Actual: args[2]})
		}
	}
	switch {
	case flagSetItemRemove && !found:
		return fmt.Errorf("no line item %q in %s", args[0], period)
	case !flagSetItemRemove && !found:
		items = append(items, daemon.LineItemInput{Category: args[0], Projected: args[1], Actual: args[2]})
	}

	out, err := c.SetLineItems(ctx, period, items)
	if err != nil {
		return explainRemoteError(err)
	}

	rows := make([][]string, 0, len(out))
	for _, it := range out {
		rows = append(rows, []string{it.Category, money(it.Projected), money(it.Actual), money(it.Difference)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Projected vs Actual  " + period.String(),
		Headers: []string{"Category", "Projected", "Actual", "Difference"},
		Rows:    rows,
	}))
	return nil
}

// explainRemoteError adds a hint for the failures a user can act on.
func explainRemoteError(err error) error {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w (start one with `budgetdash daemon --detach`)", err)
	case errors.Is(err, model.ErrUnknownField):
		return fmt.Errorf("%w (run `budgetdash config` to list categories)", err)
	}
	return err
}

func printRemoteRecord(rec *daemon.RecordView) {
	fmt.Println()
	title := "BUDGET  " + rec.Period
	if !rec.Stored {
		title += "  (defaults)"
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := [][]string{{"Income", money(rec.Income)}}
	for _, e := range rec.Expenses {
		rows = append(rows, []string{e.Name, money(e.Amount)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total Expenses", money(rec.Summary.TotalExpenses)},
		[]string{"Savings", money(rec.Savings)},
		[]string{"Left to Budget", money(rec.Summary.LeftToBudget)},
		[]string{"Remaining", money(rec.Summary.Remaining)},
		[]string{"Savings Rate", percent(rec.Summary.SavingsRate)},
		[]string{"---"},
		[]string{"Investments", money(rec.Investments)},
		[]string{"Net Worth", money(rec.NetWorth)},
		[]string{"Debt", money(rec.Debt)},
	)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Amount"},
		Rows:    rows,
	}))
}

func printRemoteHistory(rows []daemon.HistoryRowView) {
	if len(rows) == 0 {
		fmt.Println("\n  The daemon holds no months yet.")
		return
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Period, money(r.Income), money(r.TotalExpenses), money(r.Savings),
			money(r.LeftToBudget), money(r.NetWorth), money(r.Debt),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Expenses", "Savings", "Left", "Net Worth", "Debt"},
		Rows:    table,
	}))
}

// money formats a wire amount, falling back to the raw text.
func money(s string) string {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return cli.FormatMoney(v)
}

func percent(s string) string {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return cli.FormatPercent(v)
}
