package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
)

func TestUpsertOverwritesByKey(t *testing.T) {
	s := New()
	schema := model.DefaultSchema()

	rec := schema.NewRecord("2025-January")
	if err := s.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec.Income = decimal.NewFromInt(5200)
	if err := s.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	got, ok := s.Get("2025-January")
	if !ok || !got.Income.Equal(decimal.NewFromInt(5200)) {
		t.Fatalf("Get income = %s, want 5200", got.Income)
	}
}

func TestUpsertKeepsFirstTouchOrder(t *testing.T) {
	s := New()
	schema := model.DefaultSchema()
	for _, k := range []model.PeriodKey{"2025-March", "2025-January", "2025-February"} {
		_ = s.Upsert(schema.NewRecord(k))
	}
	_ = s.Upsert(schema.NewRecord("2025-March"))

	keys := s.Keys()
	want := []model.PeriodKey{"2025-March", "2025-January", "2025-February"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys()[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestUpsertRejectsEmptyPeriod(t *testing.T) {
	s := New()
	err := s.Upsert(model.InputRecord{})
	if !errors.Is(err, model.ErrEmptyPeriod) {
		t.Fatalf("Upsert(empty) err = %v, want ErrEmptyPeriod", err)
	}
}

func TestModifyCommitsOnlyOnSuccess(t *testing.T) {
	s := New()
	schema := model.DefaultSchema()
	create := func() model.InputRecord { return schema.NewRecord("") }

	_, err := s.Modify("2025-May", create, func(r *model.InputRecord) error {
		r.Income = decimal.NewFromInt(1)
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("Modify returned nil error")
	}
	if s.Len() != 0 {
		t.Fatalf("failed Modify inserted a record")
	}

	got, err := s.Modify("2025-May", create, func(r *model.InputRecord) error {
		r.Income = decimal.NewFromInt(4800)
		return nil
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if got.Period != "2025-May" || !got.Income.Equal(decimal.NewFromInt(4800)) {
		t.Fatalf("Modify result = %+v", got)
	}
}

func TestReadersGetCopies(t *testing.T) {
	s := New()
	_ = s.Upsert(model.DefaultSchema().NewRecord("2025-June"))

	got, _ := s.Get("2025-June")
	got.Expenses[0].Amount = decimal.NewFromInt(1)

	again, _ := s.Get("2025-June")
	if again.Expenses[0].Amount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("mutating a Get result changed the store")
	}
}

func TestConcurrentModify(t *testing.T) {
	s := New()
	create := func() model.InputRecord { return model.InputRecord{} }

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Modify("2025-July", create, func(r *model.InputRecord) error {
				r.Income = r.Income.Add(decimal.NewFromInt(10))
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := s.Get("2025-July")
	if !got.Income.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("income after 50 concurrent increments = %s, want 500", got.Income)
	}
}
