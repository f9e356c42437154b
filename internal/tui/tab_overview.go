package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

func signedTone(d decimal.Decimal) components.Tone {
	if d.IsNegative() {
		return components.ToneNegative
	}
	return components.TonePositive
}

// share returns part/whole as a float, 0 when whole is not positive.
func share(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).InexactFloat64()
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	rec := a.record
	var b strings.Builder

	if a.sumErr != nil {
		warn := lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface)
		b.WriteString(components.ContentCard("Outflow configuration",
			warn.Render(a.sumErr.Error())+"\n"+
				lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
					Render("Fix outflow fields on the Settings tab."),
			cw))
		b.WriteString("\n")
	}

	// Figures that do not depend on the outflow set are always available.
	income := rec.Income
	totalExpenses := budget.TotalExpenses(rec)
	left := budget.LeftToBudget(income, totalExpenses, rec.Savings)
	rate := budget.SavingsRate(rec.Savings, income)

	leftDelta := "unassigned"
	if left.IsNegative() {
		leftDelta = "over budget"
	}
	rateDelta := cli.FormatMoney(rec.Savings) + " saved"
	if !income.IsPositive() {
		rateDelta = "no income"
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: cli.FormatMoney(income)},
		{Label: "Total Expenses", Value: cli.FormatMoney(totalExpenses),
			Delta: fmt.Sprintf("%.0f%% of income", share(totalExpenses, income)*100)},
		{Label: "Left to Budget", Value: cli.FormatMoney(left), Delta: leftDelta, Tone: signedTone(left)},
		{Label: "Savings Rate", Value: cli.FormatPercent(rate), Delta: rateDelta},
	}, cw))
	b.WriteString("\n")

	second := []components.Metric{
		{Label: "Balance", Value: cli.FormatMoney(budget.Balance(income, totalExpenses)),
			Delta: "income − expenses", Tone: signedTone(budget.Balance(income, totalExpenses))},
		{Label: "Net Worth", Value: cli.FormatMoney(rec.NetWorth)},
		{Label: "Investments", Value: cli.FormatMoney(rec.Investments)},
		{Label: "Debt", Value: cli.FormatMoney(rec.Debt)},
	}
	if a.sumErr == nil {
		second = append([]components.Metric{{
			Label: "Remaining", Value: cli.FormatMoney(a.summary.Remaining),
			Delta: "after " + cli.FormatCompact(a.summary.TotalOutflow) + " outflow",
			Tone:  signedTone(a.summary.Remaining),
		}}, second...)
	}
	b.WriteString(components.MetricCardRow(second, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Budget Health", a.healthBars(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Top Expenses", a.topExpenses(components.CardInnerWidth(cw), 5), cw))
		return b.String()
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Budget Health", a.healthBars(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Top Expenses", a.topExpenses(components.CardInnerWidth(halves[1]), 5), halves[1]),
	}))
	return b.String()
}

// healthBars shows how much of income expenses, outflow and savings take.
func (a App) healthBars(innerW int) string {
	const labelW = 10
	barW := max(10, innerW-labelW-7)
	income := a.record.Income

	expShare := share(budget.TotalExpenses(a.record), income)
	lines := []string{components.RatioBar("Expenses", expShare, components.SpendColor(expShare), labelW, barW)}
	if a.sumErr == nil {
		outShare := share(a.summary.TotalOutflow, income)
		lines = append(lines, components.RatioBar("Outflow", outShare, components.SpendColor(outShare), labelW, barW))
	}
	rate := budget.SavingsRate(a.record.Savings, income).InexactFloat64() / 100
	lines = append(lines, components.RatioBar("Savings", rate, theme.Active.Savings, labelW, barW))
	return strings.Join(lines, "\n")
}

// topExpenses renders the n largest categories as bars.
func (a App) topExpenses(innerW, n int) string {
	t := theme.Active
	items := budget.ExpenseBreakdown(a.record)
	// Largest first without disturbing the declaration order of ties.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Amount.GreaterThan(items[j-1].Amount); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	if len(items) > n {
		items = items[:n]
	}
	if len(items) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No expense categories")
	}

	nameW := 0
	for _, it := range items {
		nameW = max(nameW, len([]rune(it.Category)))
	}
	nameW = min(nameW, innerW/3)
	const amountW = 12
	barMax := max(1, innerW-nameW-amountW-2)
	peak := items[0].Amount

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, it := range items {
		barLen := int(share(it.Amount, peak) * float64(barMax))
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(it.Category, nameW))))
		b.WriteString(pad.Render(" "))
		b.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(pad.Render(strings.Repeat(" ", barMax-barLen+1)))
		b.WriteString(amtStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatMoney(it.Amount))))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
