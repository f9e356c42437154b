package budget

import (
	"errors"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/model"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{" 1200 ", "1200.00", false},
		{"$1,200.50", "1200.50", false},
		{"€ 45", "45.00", false},
		{"-50", "-50.00", false},
		{"$-50", "-50.00", false},
		{"-$50", "-50.00", false},
		{"1,200", "1200.00", false},
		{"$1,200", "1200.00", false},
		{"12,500", "12500.00", false},
		{"1,234,567", "1234567.00", false},
		{"12,5", "12.50", false},
		{"0", "0.00", false},
		{"", "", true},
		{"abc", "", true},
		{"1,2,3", "", true},
		{"1e3", "", true},
		{"+5", "", true},
		{"--5", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if !errors.Is(err, model.ErrInvalidAmount) {
				t.Fatalf("ParseAmount(%q) err = %v, want ErrInvalidAmount", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tt.in, err)
		}
		if got.StringFixed(2) != tt.want {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
		}
	}
}
