package source

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// LoadResult summarizes a sheet import.
type LoadResult struct {
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Periods     int
	Fields      int
	Unknown     []string
	Errors      []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files parsed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load parses every sheet at path and applies it through b, so imported
// values pass the same validation as typed input. Sheets are parsed in
// parallel and applied in path order. Rejected values are collected in
// Errors; the rest of the import still applies.
func Load(path string, b *budget.Builder, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParsedFiles++
		for _, k := range pr.Unknown {
			result.Unknown = append(result.Unknown, pr.File.Name+": "+k)
		}
		for _, p := range pr.Sheet.Periods {
			applyPeriod(b, pr.File, p, result)
		}
	}

	return result, nil
}

func applyPeriod(b *budget.Builder, df DiscoveredFile, p RawPeriod, result *LoadResult) {
	key := model.PeriodKey(p.Key).Canonical()
	fail := func(field string, err error) {
		result.Errors = append(result.Errors, fmt.Errorf("%s: period %s field %s: %w", df.Name, key, field, err))
	}

	if _, err := b.Touch(key); err != nil {
		fail("-", err)
		return
	}
	result.Periods++

	scalars := []struct {
		name string
		v    *RawAmount
	}{
		{model.FieldIncome, p.Income},
		{model.FieldSavings, p.Savings},
		{model.FieldInvestments, p.Investments},
		{model.FieldNetWorth, p.NetWorth},
		{model.FieldDebt, p.Debt},
	}
	for _, s := range scalars {
		if s.v == nil {
			continue
		}
		if err := b.SetFieldString(key, s.name, s.v.Text); err != nil {
			fail(s.name, err)
			continue
		}
		result.Fields++
	}

	names := make([]string, 0, len(p.Expenses))
	for name := range p.Expenses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.SetFieldString(key, name, p.Expenses[name].Text); err != nil {
			fail(name, err)
			continue
		}
		result.Fields++
	}

	if len(p.LineItems) == 0 {
		return
	}
	items := make([]model.ExpenseLineItem, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		projected, err := budget.ParseAmount(li.Projected.Text)
		if err != nil {
			fail(li.Category+" projected", err)
			return
		}
		actual, err := budget.ParseAmount(li.Actual.Text)
		if err != nil {
			fail(li.Category+" actual", err)
			return
		}
		items = append(items, model.ExpenseLineItem{Category: li.Category, Projected: projected, Actual: actual})
	}
	if _, err := b.SetLineItems(key, items); err != nil {
		fail("line_items", err)
	}
}
