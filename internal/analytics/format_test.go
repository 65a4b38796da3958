package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"1234.567", "$1,234.57"},
		{"1250000", "$1,250,000.00"},
		{"-10", "-$10.00"},
		{"-0.001", "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatCurrency(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.1", "10.00%"},
		{"-0.0525", "-5.25%"},
		{"0", "0.00%"},
		{"1.23456", "123.46%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatPercent(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
