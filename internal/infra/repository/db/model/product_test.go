package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDeriveDiscountPercentage(t *testing.T) {
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	testCases := []struct {
		name          string
		price         string
		originalPrice *decimal.Decimal
		want          int
	}{
		{"no original price", "100", nil, 0},
		{"original equals price", "100", dec("100"), 0},
		{"original below price", "100", dec("80"), 0},
		{"original is zero", "100", dec("0"), 0},
		{"quarter off", "75", dec("100"), 25},
		{"half off", "50", dec("100"), 50},
		{"rounds to nearest", "66.5", dec("100"), 34},
		{"small discount rounds down", "99.6", dec("100"), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveDiscountPercentage(decimal.RequireFromString(tc.price), tc.originalPrice)
			require.Equal(t, tc.want, got)
		})
	}
}
