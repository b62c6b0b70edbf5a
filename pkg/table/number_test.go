package table

import "testing"

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"1,234.5", 1234.5},
		{"abc", 0},
		{"-5", -5},
		{" 42 ", 42},
		{"1,000,000", 1000000},
		{"3.5e2", 350},
		{"NaN", 0},
		{"Infinity", 0},
		{"-Inf", 0},
		{"1e400", 0},
		{"12abc", 0},
	}
	for _, tt := range tests {
		if got := Coerce(tt.in); got != tt.want {
			t.Errorf("Coerce(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
