package model

import "github.com/shopspring/decimal"

// Category is one expense category with its default amount.
type Category struct {
	Name    string
	Default decimal.Decimal
}

// Schema fixes the set of fields a period record carries and the values a
// fresh record starts with.
type Schema struct {
	Categories  []Category
	Income      decimal.Decimal
	Savings     decimal.Decimal
	Investments decimal.Decimal
	NetWorth    decimal.Decimal
	Debt        decimal.Decimal
}

// DefaultSchema returns the stock monthly budget layout.
func DefaultSchema() Schema {
	d := decimal.NewFromInt
	return Schema{
		Categories: []Category{
			{Name: "Rent", Default: d(1200)},
			{Name: "Utilities", Default: d(150)},
			{Name: "Car Payment", Default: d(300)},
			{Name: "Gas", Default: d(200)},
			{Name: "Groceries", Default: d(400)},
			{Name: "Subscriptions", Default: d(100)},
			{Name: "Other Expenses", Default: d(150)},
		},
		Income:      d(5000),
		Savings:     d(500),
		Investments: d(10000),
		NetWorth:    d(15000),
		Debt:        d(3000),
	}
}

// NewRecord returns a record for period populated with the schema defaults.
func (s Schema) NewRecord(period PeriodKey) InputRecord {
	r := InputRecord{
		Period:      period,
		Income:      s.Income,
		Savings:     s.Savings,
		Investments: s.Investments,
		NetWorth:    s.NetWorth,
		Debt:        s.Debt,
		Expenses:    make([]ExpenseField, 0, len(s.Categories)),
	}
	for _, c := range s.Categories {
		r.Expenses = append(r.Expenses, ExpenseField{Name: c.Name, Amount: c.Default})
	}
	return r
}

// Category returns the declared category matching name.
func (s Schema) Category(name string) (Category, bool) {
	key := NormalizeName(name)
	for _, c := range s.Categories {
		if NormalizeName(c.Name) == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryNames returns the category names in declaration order.
func (s Schema) CategoryNames() []string {
	names := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		names[i] = c.Name
	}
	return names
}

// Resolve maps a user-supplied field name to its canonical spelling.
// scalar reports whether it names one of ScalarFields.
func (s Schema) Resolve(name string) (canonical string, scalar bool, ok bool) {
	key := NormalizeName(name)
	for _, f := range ScalarFields {
		if f == key {
			return f, true, true
		}
	}
	if c, found := s.Category(name); found {
		return c.Name, false, true
	}
	return "", false, false
}
