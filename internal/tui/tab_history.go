package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// historyOverhead is the rows the chart card and table chrome take.
const historyOverhead = 18

func (a App) renderHistoryTab(cw, contentH int) string {
	t := theme.Active
	rows := a.history
	innerW := components.CardInnerWidth(cw)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(rows) == 0 {
		return components.ContentCard("History",
			mutedStyle.Render("No months recorded yet. Press [e] to enter figures for "+a.period.String()+"."), cw)
	}

	labels := make([]string, len(rows))
	income := make([]float64, len(rows))
	expenses := make([]float64, len(rows))
	left := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = shortPeriod(r.Period.String())
		income[i] = r.Income.InexactFloat64()
		expenses[i] = r.TotalExpenses.InexactFloat64()
		left[i] = r.LeftToBudget.InexactFloat64()
	}

	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	chart := components.ColumnChart([]components.Series{
		{Name: "Income", Color: t.Income, Values: income},
		{Name: "Expenses", Color: t.Expense, Values: expenses},
	}, labels, innerW, chartH)

	title := "Income vs Expenses"
	if len(rows) > 1 {
		title += "  " + components.Sparkline(left, t.Savings)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(title, chart, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Months (%d)", len(rows)),
		a.historyTable(innerW, max(3, contentH-historyOverhead)), cw))
	return b.String()
}

// historyTable renders the period table, scrolled so the cursor row is
// visible within maxRows.
func (a App) historyTable(innerW, maxRows int) string {
	t := theme.Active
	rows := a.history

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const numW = 13
	compact := a.isCompactLayout()
	cols := 6
	if compact {
		cols = 4
	}
	periodW := max(12, innerW-cols*(numW+1))

	header := fmt.Sprintf("%-*s %*s %*s %*s %*s", periodW, "Month", numW, "Income", numW, "Expenses", numW, "Savings", numW, "Left")
	if !compact {
		header += fmt.Sprintf(" %*s %*s", numW, "Net Worth", numW, "Debt")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	offset := 0
	if a.histCursor >= maxRows {
		offset = a.histCursor - maxRows + 1
	}
	end := min(len(rows), offset+maxRows)

	for i := offset; i < end; i++ {
		r := rows[i]
		style := rowStyle
		marker := "  "
		if r.Period == a.period {
			marker = "• "
		}
		if i == a.histCursor {
			style = selStyle
			marker = "▸ "
		}

		line := fmt.Sprintf("%s%-*s %*s %*s %*s ", marker, periodW-2, truncStr(r.Period.String(), periodW-2),
			numW, cli.FormatMoney(r.Income), numW, cli.FormatMoney(r.TotalExpenses), numW, cli.FormatMoney(r.Savings))
		b.WriteString(style.Render(line))
		b.WriteString(differenceStyle(r.LeftToBudget, i == a.histCursor).Render(fmt.Sprintf("%*s", numW, cli.FormatMoney(r.LeftToBudget))))
		if !compact {
			b.WriteString(style.Render(fmt.Sprintf(" %*s %*s", numW, cli.FormatMoney(r.NetWorth), numW, cli.FormatMoney(r.Debt))))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[j/k] move  [enter] open month  [g/G] first/last"))
	return b.String()
}

// shortPeriod abbreviates "2025-March" to "Mar 25" for chart labels.
func shortPeriod(p string) string {
	year, month, ok := strings.Cut(p, "-")
	if !ok || len(month) < 3 || len(year) < 2 {
		return p
	}
	return month[:3] + " " + year[len(year)-2:]
}
