package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

// writeSheet creates a sheet file in dir and returns a DiscoveredFile for it.
func writeSheet(t *testing.T, dir, name string, lines ...string) DiscoveredFile {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return discovered(path)
}

func newBuilder() *budget.Builder {
	return budget.NewBuilder(store.New(), model.DefaultSchema())
}

func TestParseFile_AmountForms(t *testing.T) {
	df := writeSheet(t, t.TempDir(), "2025.toml",
		`[[period]]`,
		`key = "2025-March"`,
		`income = 4800`,
		`savings = 512.5`,
		`net_worth = "16,000.25"`,
		`[period.expenses]`,
		`Rent = 1200`,
		`"Car Payment" = "300"`,
	)

	res := ParseFile(df)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Sheet.Periods) != 1 {
		t.Fatalf("Periods = %d, want 1", len(res.Sheet.Periods))
	}
	p := res.Sheet.Periods[0]
	if p.Income == nil || p.Income.Text != "4800" {
		t.Errorf("Income = %+v, want 4800", p.Income)
	}
	if p.Savings == nil || p.Savings.Text != "512.5" {
		t.Errorf("Savings = %+v, want 512.5", p.Savings)
	}
	if p.NetWorth == nil || p.NetWorth.Text != "16,000.25" {
		t.Errorf("NetWorth = %+v", p.NetWorth)
	}
	if p.Debt != nil {
		t.Errorf("Debt = %+v, want unset", p.Debt)
	}
	if p.Expenses["Car Payment"].Text != "300" {
		t.Errorf("Car Payment = %q", p.Expenses["Car Payment"].Text)
	}
}

func TestParseFile_UnknownKeys(t *testing.T) {
	df := writeSheet(t, t.TempDir(), "extra.toml",
		`[[period]]`,
		`key = "2025-March"`,
		`bonus = 100`,
	)
	res := ParseFile(df)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Unknown) != 1 || !strings.Contains(res.Unknown[0], "bonus") {
		t.Errorf("Unknown = %v, want [period.bonus]", res.Unknown)
	}
}

func TestParseFile_MissingKey(t *testing.T) {
	df := writeSheet(t, t.TempDir(), "nokey.toml", `[[period]]`, `income = 1`)
	if res := ParseFile(df); res.Err == nil {
		t.Fatal("expected error for period without key")
	}
}

func TestParseFile_BadTOML(t *testing.T) {
	df := writeSheet(t, t.TempDir(), "bad.toml", `[[period]`)
	if res := ParseFile(df); res.Err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "b.toml", `# empty`)
	writeSheet(t, dir, "a.toml", `# empty`)
	writeSheet(t, dir, "notes.txt", `ignored`)
	if err := os.Mkdir(filepath.Join(dir, ".hidden"), 0o750); err != nil {
		t.Fatal(err)
	}
	writeSheet(t, filepath.Join(dir, ".hidden"), "c.toml", `# empty`)

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a" || files[1].Name != "b" {
		t.Fatalf("ScanDir = %+v, want a, b", files)
	}

	missing, err := ScanDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Fatalf("ScanDir(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestLoad_AppliesThroughBuilder(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "2025.toml",
		`[[period]]`,
		`key = "2025-feb"`,
		`income = 5200`,
		``,
		`[[period]]`,
		`key = "2025-January"`,
		`savings = 600`,
		`[period.expenses]`,
		`rent = 1100`,
		`[[period.line_items]]`,
		`category = "Groceries"`,
		`projected = 300`,
		`actual = 290`,
	)

	b := newBuilder()
	res, err := Load(dir, b, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("Errors = %v", res.Errors)
	}
	if res.Periods != 2 || res.Fields != 3 {
		t.Fatalf("Periods=%d Fields=%d, want 2 and 3", res.Periods, res.Fields)
	}

	keys := b.Store().Keys()
	if len(keys) != 2 || keys[0] != "2025-February" || keys[1] != "2025-January" {
		t.Fatalf("store keys = %v, want file order", keys)
	}
	jan := b.GetRecord("2025-January")
	if v, _ := jan.Expense("Rent"); v.StringFixed(2) != "1100.00" {
		t.Fatalf("Rent = %s, want 1100", v)
	}
	if len(jan.LineItems) != 1 || jan.LineItems[0].Difference.StringFixed(2) != "10.00" {
		t.Fatalf("line items = %+v", jan.LineItems)
	}
}

func TestLoad_CollectsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "bad-values.toml",
		`[[period]]`,
		`key = "2025-March"`,
		`income = 4000`,
		`debt = -5`,
		`[period.expenses]`,
		`Vacation = 100`,
	)
	writeSheet(t, dir, "broken.toml", `[[period]`)

	b := newBuilder()
	res, err := Load(dir, b, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.FileErrors != 1 || res.ParsedFiles != 1 {
		t.Fatalf("FileErrors=%d ParsedFiles=%d", res.FileErrors, res.ParsedFiles)
	}

	var neg, unknown bool
	for _, e := range res.Errors {
		if errors.Is(e, model.ErrNegativeAmount) && strings.Contains(e.Error(), "debt") {
			neg = true
		}
		if errors.Is(e, model.ErrUnknownField) && strings.Contains(e.Error(), "Vacation") {
			unknown = true
		}
	}
	if !neg || !unknown {
		t.Fatalf("Errors = %v, want negative debt and unknown Vacation", res.Errors)
	}

	r := b.GetRecord("2025-March")
	if r.Income.StringFixed(0) != "4000" || r.Debt.StringFixed(0) != "3000" {
		t.Fatalf("income=%s debt=%s, want 4000 and default 3000", r.Income, r.Debt)
	}
}

func TestLoad_Progress(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.toml", "b.toml", "c.toml"} {
		writeSheet(t, dir, n, `# empty`)
	}
	var (
		mu          sync.Mutex
		last, total int
	)
	_, err := Load(dir, newBuilder(), func(c, tot int) {
		mu.Lock()
		defer mu.Unlock()
		if c > last {
			last = c
		}
		total = tot
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if last != 3 || total != 3 {
		t.Fatalf("progress last=%d total=%d, want 3/3", last, total)
	}
}
