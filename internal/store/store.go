// Package store holds the session's period records and writes history
// archives.
package store

import (
	"sync"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// BudgetStore keeps at most one InputRecord per period key, in the order
// periods were first touched. All access is serialized; readers always
// receive copies.
type BudgetStore struct {
	mu      sync.RWMutex
	records map[model.PeriodKey]*model.InputRecord
	order   []model.PeriodKey
}

// New returns an empty store.
func New() *BudgetStore {
	return &BudgetStore{records: make(map[model.PeriodKey]*model.InputRecord)}
}

// Upsert inserts rec or replaces the record with the same period key.
// A replaced record keeps its original position in the order.
func (s *BudgetStore) Upsert(rec model.InputRecord) error {
	if rec.Period == "" {
		return &model.ValidationError{Kind: model.ErrEmptyPeriod}
	}
	c := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(&c)
	return nil
}

func (s *BudgetStore) putLocked(rec *model.InputRecord) {
	if _, ok := s.records[rec.Period]; !ok {
		s.order = append(s.order, rec.Period)
	}
	s.records[rec.Period] = rec
}

// Get returns a copy of the record for key.
func (s *BudgetStore) Get(key model.PeriodKey) (model.InputRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return model.InputRecord{}, false
	}
	return rec.Clone(), true
}

// Modify applies fn to a copy of the record for key and commits the copy
// only when fn succeeds. When no record exists, create supplies the
// starting value and the key is appended to the order on commit.
func (s *BudgetStore) Modify(key model.PeriodKey, create func() model.InputRecord, fn func(*model.InputRecord) error) (model.InputRecord, error) {
	if key == "" {
		return model.InputRecord{}, &model.ValidationError{Kind: model.ErrEmptyPeriod}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var work model.InputRecord
	if cur, ok := s.records[key]; ok {
		work = cur.Clone()
	} else {
		work = create()
	}
	work.Period = key

	if err := fn(&work); err != nil {
		return model.InputRecord{}, err
	}

	s.putLocked(&work)
	return work.Clone(), nil
}

// Records returns copies of every record in first-touch order.
func (s *BudgetStore) Records() []model.InputRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.InputRecord, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.records[k].Clone())
	}
	return out
}

// Keys returns the stored period keys in first-touch order.
func (s *BudgetStore) Keys() []model.PeriodKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PeriodKey(nil), s.order...)
}

// Len returns the number of stored periods.
func (s *BudgetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
