package budget

import (
	"testing"
	"time"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

func BenchmarkSummarize(b *testing.B) {
	schema := model.DefaultSchema()
	r := schema.NewRecord("2025-March")
	fields := DefaultOutflowFields(schema)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Summarize(r, fields); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetField(b *testing.B) {
	bl := NewBuilder(store.New(), model.DefaultSchema())
	v := dec("1234.56")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := bl.SetField("2025-March", "Groceries", v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHistory(b *testing.B) {
	s := store.New()
	schema := model.DefaultSchema()
	for y := 2000; y < 2025; y++ {
		for m := time.January; m <= time.December; m++ {
			_ = s.Upsert(schema.NewRecord(model.NewPeriodKey(y, m)))
		}
	}
	b.Logf("Benchmarking history over %d periods", s.Len())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = History(s)
	}
}
