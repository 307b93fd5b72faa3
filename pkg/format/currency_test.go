package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1234.56, "₪1,234.56"},
		{0, "₪0.00"},
		{1000000, "₪1,000,000.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.want {
			t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1234.56, "1,234.56"},
		{-1234.56, "-1,234.56"},
		{0, "0.00"},
		{999.9, "999.90"},
		{1000000, "1,000,000.00"},
	}
	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.want {
			t.Errorf("NumericCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
