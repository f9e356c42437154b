package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

type itemsState struct {
	cursor int
}

// lineItemValues backs the add/edit line item form.
type lineItemValues struct {
	period    model.PeriodKey
	category  string
	projected string
	actual    string
}

func newLineItemForm(vals *lineItemValues, categories []string, editing bool) *huh.Form {
	options := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		options[i] = huh.NewOption(c, c)
	}

	title := "Add line item"
	if editing {
		title = "Edit line item"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(vals.period.String()).
				Options(options...).
				Value(&vals.category),
			huh.NewInput().
				Title("Projected").
				Value(&vals.projected).
				Validate(validateAmount("projected")),
			huh.NewInput().
				Title("Actual").
				Value(&vals.actual).
				Validate(validateAmount("actual")),
		),
	).WithShowHelp(true)
}

func (a App) updateLineItemsKey(key string) (App, tea.Cmd, bool) {
	items := a.record.LineItems
	switch key {
	case "j", "down":
		return a.scroll(1)
	case "k", "up":
		return a.scroll(-1)
	case "a":
		a.itemVals = &lineItemValues{period: a.period, projected: "0.00", actual: "0.00"}
		return a.openItemForm(false)
	case "enter":
		if len(items) == 0 {
			return a, nil, true
		}
		it := items[a.items.cursor]
		a.itemVals = &lineItemValues{
			period:    a.period,
			category:  it.Category,
			projected: it.Projected.StringFixed(2),
			actual:    it.Actual.StringFixed(2),
		}
		return a.openItemForm(true)
	case "d":
		if len(items) == 0 {
			return a, nil, true
		}
		removed := items[a.items.cursor].Category
		next := make([]model.ExpenseLineItem, 0, len(items)-1)
		next = append(next, items[:a.items.cursor]...)
		next = append(next, items[a.items.cursor+1:]...)
		if _, err := a.builder.SetLineItems(a.period, next); err != nil {
			return a, a.setStatus(err.Error(), true), true
		}
		a.recompute()
		return a, a.setStatus("removed "+removed, false), true
	}
	return a, nil, false
}

func (a App) openItemForm(editing bool) (App, tea.Cmd, bool) {
	categories := a.builder.Schema().CategoryNames()
	if a.itemVals.category == "" && len(categories) > 0 {
		a.itemVals.category = categories[0]
	}
	a.itemForm = newLineItemForm(a.itemVals, categories, editing)
	a.sizeForm(a.itemForm)
	return a, a.itemForm.Init(), true
}

// applyLineItem upserts the form's item by category and writes the whole
// list back through the Builder.
func (a *App) applyLineItem() tea.Cmd {
	vals := a.itemVals
	a.itemVals = nil
	if vals == nil {
		return nil
	}

	projected, err := budget.ParseAmount(vals.projected)
	if err != nil {
		return a.setStatus(err.Error(), true)
	}
	actual, err := budget.ParseAmount(vals.actual)
	if err != nil {
		return a.setStatus(err.Error(), true)
	}

	rec := a.builder.GetRecord(vals.period)
	items := append([]model.ExpenseLineItem(nil), rec.LineItems...)
	item := model.ExpenseLineItem{Category: vals.category, Projected: projected, Actual: actual}
	replaced := false
	for i := range items {
		if model.NormalizeName(items[i].Category) == model.NormalizeName(vals.category) {
			items[i].Projected, items[i].Actual = projected, actual
			replaced = true
		}
	}
	if !replaced {
		items = append(items, item)
	}

	if _, err := a.builder.SetLineItems(vals.period, items); err != nil {
		return a.setStatus(err.Error(), true)
	}
	return a.setStatus("saved line item "+vals.category, false)
}

func (a App) renderLineItemsTab(cw int) string {
	t := theme.Active
	items := a.record.LineItems
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const numW = 14
	nameW := max(12, innerW-3*(numW+1))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s", nameW, "Category", numW, "Projected", numW, "Actual", numW, "Difference")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("No line items for this month. Press [a] to add one."))
		b.WriteString("\n")
	}

	var totalProjected, totalActual decimal.Decimal
	for i, it := range items {
		totalProjected = totalProjected.Add(it.Projected)
		totalActual = totalActual.Add(it.Actual)

		style := rowStyle
		if i == a.items.cursor {
			style = selStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-*s %*s %*s ", nameW, truncStr(it.Category, nameW),
			numW, cli.FormatMoney(it.Projected), numW, cli.FormatMoney(it.Actual))))
		b.WriteString(differenceStyle(it.Difference, i == a.items.cursor).Render(fmt.Sprintf("%*s", numW, cli.FormatDelta(it.Difference))))
		b.WriteString("\n")
	}

	if len(items) > 0 {
		diff := totalProjected.Sub(totalActual)
		b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s ", nameW, "Total",
			numW, cli.FormatMoney(totalProjected), numW, cli.FormatMoney(totalActual))))
		b.WriteString(differenceStyle(diff, false).Bold(true).Render(fmt.Sprintf("%*s", numW, cli.FormatDelta(diff))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[a] add  [enter] edit  [d] delete  [j/k] move"))

	return components.ContentCard("Projected vs Actual · "+a.period.String(), b.String(), cw)
}

// differenceStyle colors a projected-minus-actual difference: under
// budget is positive, over budget negative.
func differenceStyle(d decimal.Decimal, selected bool) lipgloss.Style {
	t := theme.Active
	bg := t.Surface
	if selected {
		bg = t.SurfaceBright
	}
	fg := t.Positive
	if d.IsNegative() {
		fg = t.Negative
	}
	return lipgloss.NewStyle().Foreground(fg).Background(bg)
}
