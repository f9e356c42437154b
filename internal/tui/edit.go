package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// editValues backs the month edit form. names are canonical field names,
// values the text the user typed, original what the form opened with.
type editValues struct {
	period   model.PeriodKey
	names    []string
	values   []string
	original []string
}

// validateAmount rejects input the Builder would refuse, so the form can
// show the problem inline next to the field.
func validateAmount(name string) func(string) error {
	return func(s string) error {
		v, err := budget.ParseAmount(s)
		if err != nil {
			return err
		}
		if v.IsNegative() {
			return model.NegativeAmount(name)
		}
		return nil
	}
}

func newEditValues(rec model.InputRecord) *editValues {
	vals := &editValues{period: rec.Period}
	add := func(name, text string) {
		vals.names = append(vals.names, name)
		vals.values = append(vals.values, text)
		vals.original = append(vals.original, text)
	}
	for _, name := range model.ScalarFields {
		v, _ := rec.Scalar(name)
		add(name, v.StringFixed(2))
	}
	for _, e := range rec.Expenses {
		add(e.Name, e.Amount.StringFixed(2))
	}
	return vals
}

// newEditForm builds a two page form: scalar fields, then expenses.
// vals must not grow after this call since inputs point into its slices.
func newEditForm(vals *editValues) *huh.Form {
	var scalars, expenses []huh.Field
	for i, name := range vals.names {
		_, isScalar := scalarIndex(name)
		title := name
		if isScalar {
			title = fieldLabel(name)
		}
		in := huh.NewInput().
			Title(title).
			Value(&vals.values[i]).
			Validate(validateAmount(title))
		if isScalar {
			scalars = append(scalars, in)
		} else {
			expenses = append(expenses, in)
		}
	}

	groups := []*huh.Group{
		huh.NewGroup(scalars...).Title("Edit " + vals.period.String()).Description("Income and balances"),
	}
	if len(expenses) > 0 {
		groups = append(groups, huh.NewGroup(expenses...).Title("Expenses"))
	}
	return huh.NewForm(groups...).WithShowHelp(true)
}

func scalarIndex(name string) (int, bool) {
	for i, s := range model.ScalarFields {
		if s == name {
			return i, true
		}
	}
	return -1, false
}

func (a App) startEdit() (tea.Model, tea.Cmd) {
	a.editVals = newEditValues(a.record)
	a.editForm = newEditForm(a.editVals)
	a.sizeForm(a.editForm)
	return a, a.editForm.Init()
}

// applyEdit writes every changed field through the Builder. Unchanged
// fields are skipped so opening the form never creates a record.
func (a *App) applyEdit() tea.Cmd {
	vals := a.editVals
	a.editVals = nil
	if vals == nil {
		return nil
	}

	var errs []error
	changed := 0
	for i, name := range vals.names {
		if vals.values[i] == vals.original[i] {
			continue
		}
		if err := a.builder.SetFieldString(vals.period, name, vals.values[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		changed++
	}

	if err := errors.Join(errs...); err != nil {
		return a.setStatus(err.Error(), true)
	}
	if changed == 0 {
		return a.setStatus("no changes", false)
	}
	return a.setStatus(fmt.Sprintf("saved %d field(s) for %s", changed, vals.period), false)
}
