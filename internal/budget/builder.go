package budget

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

// Builder validates field writes and applies them to the store. Every
// record it creates starts from the schema defaults.
type Builder struct {
	store  *store.BudgetStore
	schema model.Schema
}

// NewBuilder returns a Builder writing into s.
func NewBuilder(s *store.BudgetStore, schema model.Schema) *Builder {
	return &Builder{store: s, schema: schema}
}

// Store returns the backing store.
func (b *Builder) Store() *store.BudgetStore { return b.store }

// Schema returns the field layout records are built with.
func (b *Builder) Schema() model.Schema { return b.schema }

func (b *Builder) newRecord() model.InputRecord {
	return b.schema.NewRecord("")
}

// SetField overwrites one field of the period's record, creating the
// record from defaults when the period has not been seen. Rejected
// writes leave the store unchanged.
func (b *Builder) SetField(period model.PeriodKey, field string, value decimal.Decimal) error {
	if period == "" {
		return &model.ValidationError{Kind: model.ErrEmptyPeriod}
	}
	name, scalar, ok := b.schema.Resolve(field)
	if !ok {
		return model.UnknownField(field)
	}
	if value.IsNegative() {
		return model.NegativeAmount(name)
	}

	_, err := b.store.Modify(period, b.newRecord, func(r *model.InputRecord) error {
		if scalar {
			r.SetScalar(name, value)
		} else {
			r.SetExpense(name, value)
		}
		return nil
	})
	return err
}

// SetFieldString parses raw form input and applies it with SetField.
func (b *Builder) SetFieldString(period model.PeriodKey, field, raw string) error {
	v, err := ParseAmount(raw)
	if err != nil {
		return fmt.Errorf("field %s: %w", field, err)
	}
	return b.SetField(period, field, v)
}

// SetLineItems replaces the period's projected-versus-actual items and
// returns them with differences computed.
func (b *Builder) SetLineItems(period model.PeriodKey, items []model.ExpenseLineItem) ([]model.ExpenseLineItem, error) {
	for _, it := range items {
		if it.Projected.IsNegative() {
			return nil, model.NegativeAmount(it.Category + " projected")
		}
		if it.Actual.IsNegative() {
			return nil, model.NegativeAmount(it.Category + " actual")
		}
	}
	computed := LineItemDifferences(items)

	_, err := b.store.Modify(period, b.newRecord, func(r *model.InputRecord) error {
		r.LineItems = computed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return computed, nil
}

// GetRecord returns the stored record for period, or a default record
// when the period has never been written. It never inserts.
func (b *Builder) GetRecord(period model.PeriodKey) model.InputRecord {
	if r, ok := b.store.Get(period); ok {
		return r
	}
	return b.schema.NewRecord(period)
}

// Touch makes sure period has a stored record and returns it. Repeated
// calls without writes in between leave the store unchanged.
func (b *Builder) Touch(period model.PeriodKey) (model.InputRecord, error) {
	return b.store.Modify(period, b.newRecord, func(*model.InputRecord) error { return nil })
}

// CopyPeriod replaces dst with src's figures, or with defaults when src
// was never written. Line items stay with src. The copy overwrites dst in
// place, so dst keeps its history position.
func (b *Builder) CopyPeriod(src, dst model.PeriodKey) (model.InputRecord, error) {
	rec := b.GetRecord(src)
	rec.Period = dst
	rec.LineItems = nil
	if err := b.store.Upsert(rec); err != nil {
		return model.InputRecord{}, err
	}
	return rec, nil
}
