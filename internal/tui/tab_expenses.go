package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// renderExpensesTab shows every category in declaration order with its
// share of total expenses, followed by the outflow composition.
func (a App) renderExpensesTab(cw int) string {
	t := theme.Active
	items := budget.ExpenseBreakdown(a.record)
	total := budget.TotalExpenses(a.record)
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface)

	nameW := len("Category")
	for _, it := range items {
		nameW = max(nameW, len([]rune(it.Category)))
	}
	nameW = min(nameW, 24)
	const amountW, pctW = 14, 7
	barMax := max(1, innerW-nameW-amountW-pctW-3)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s", nameW, "Category", barMax, "", amountW, "Amount", pctW, "Share")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	for _, it := range items {
		pct := share(it.Amount, total) * 100
		barLen := int(share(it.Amount, total) * float64(barMax))
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(it.Category, nameW))))
		b.WriteString(pad.Render(" "))
		b.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(pad.Render(strings.Repeat(" ", barMax-barLen+1)))
		b.WriteString(amtStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatMoney(it.Amount))))
		b.WriteString(pctStyle.Render(fmt.Sprintf(" %*s", pctW, fmt.Sprintf("%.1f%%", pct))))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s", nameW, "Total", barMax, "", amountW, cli.FormatMoney(total))))

	cards := components.ContentCard("Expense Breakdown · "+a.period.String(), b.String(), cw)
	return cards + "\n" + a.renderOutflowCard(cw)
}

// renderOutflowCard lists what counts toward total outflow for the
// current settings.
func (a App) renderOutflowCard(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface)

	if a.sumErr != nil {
		return components.ContentCard("Total Outflow", errStyle.Render(a.sumErr.Error()), cw)
	}

	fields := a.outflowFields()

	var b strings.Builder
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		key := model.NormalizeName(f)
		if seen[key] {
			continue
		}
		seen[key] = true

		rec := a.record
		v, ok := rec.Expense(f)
		if !ok {
			v, _ = rec.Scalar(key)
		}
		fmt.Fprintf(&b, "%s%s\n",
			labelStyle.Render(fmt.Sprintf("%-24s", truncStr(f, 24))),
			valueStyle.Render(fmt.Sprintf("%14s", cli.FormatMoney(v))))
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-24s", "Total")))
	b.WriteString(valueStyle.Bold(true).Render(fmt.Sprintf("%14s", cli.FormatMoney(a.summary.TotalOutflow))))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Remaining after outflow: "))
	b.WriteString(lipgloss.NewStyle().Foreground(toneFg(a.summary.Remaining.IsNegative())).Background(t.Surface).
		Render(cli.FormatMoney(a.summary.Remaining)))

	return components.ContentCard("Total Outflow", b.String(), cw)
}

func toneFg(negative bool) lipgloss.Color {
	if negative {
		return theme.Active.Negative
	}
	return theme.Active.Positive
}
