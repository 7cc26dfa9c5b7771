package helpers

import "testing"

func TestFormatVND(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"zero", 0, "0 ₫"},
		{"under a thousand", 950, "950 ₫"},
		{"typical close price", 95500, "95.500 ₫"},
		{"millions", 1234567, "1.234.567 ₫"},
		{"negative", -95500, "-95.500 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVND(tt.amount); got != tt.expected {
				t.Errorf("FormatVND(%v) = %s, want %s", tt.amount, got, tt.expected)
			}
		})
	}
}
