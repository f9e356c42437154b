package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodKey identifies one budgeting period, e.g. "2025-March".
type PeriodKey string

// NewPeriodKey builds the key for a calendar month.
func NewPeriodKey(year int, month time.Month) PeriodKey {
	return PeriodKey(fmt.Sprintf("%d-%s", year, month))
}

// CurrentPeriod returns the key for the month containing t.
func CurrentPeriod(t time.Time) PeriodKey {
	return NewPeriodKey(t.Year(), t.Month())
}

// ParsePeriodKey parses "<year>-<MonthName>". Month names match
// case-insensitively and may be abbreviated to three letters.
func ParsePeriodKey(s string) (year int, month time.Month, err error) {
	s = strings.TrimSpace(s)
	yearStr, monthStr, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("period %q: want <year>-<Month>", s)
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("period %q: bad year", s)
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(monthStr, name) || strings.EqualFold(monthStr, name[:3]) {
			return year, m, nil
		}
	}
	return 0, 0, fmt.Errorf("period %q: bad month", s)
}

// Canonical returns the normalized form of a parseable key, or the key
// unchanged when it does not follow the year-month layout.
func (k PeriodKey) Canonical() PeriodKey {
	y, m, err := ParsePeriodKey(string(k))
	if err != nil {
		return PeriodKey(strings.TrimSpace(string(k)))
	}
	return NewPeriodKey(y, m)
}

// Shift moves a year-month key by n months. Keys that do not parse are
// returned unchanged.
func (k PeriodKey) Shift(n int) PeriodKey {
	y, m, err := ParsePeriodKey(string(k))
	if err != nil {
		return k
	}
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return NewPeriodKey(t.Year(), t.Month())
}

func (k PeriodKey) String() string { return string(k) }
