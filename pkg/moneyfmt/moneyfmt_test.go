package moneyfmt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"186", "$186.00"},
		{"186.5", "$186.50"},
		{"1234.567", "$1,234.57"},
		{"0", "$0.00"},
	}

	for _, tt := range tests {
		got := Price(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("Price(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"13950", "$13,950"},
		{"1234567.49", "$1,234,567"},
		{"1234567.5", "$1,234,568"},
		{"0", "$0"},
	}

	for _, tt := range tests {
		got := Amount(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("Amount(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
