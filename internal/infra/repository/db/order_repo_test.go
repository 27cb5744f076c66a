package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderItems(t *testing.T) {
	products := map[uint]model.Product{
		1: {ProductID: 1, Title: "Keyboard", Price: decimal.RequireFromString("120.50"), Stock: 5},
		2: {ProductID: 2, Title: "Mouse", Price: decimal.RequireFromString("39.90"), Stock: 10},
	}

	items, total, err := buildOrderItems(products, []OrderLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "Keyboard", items[0].Title)
	require.True(t, items[0].LineTotal.Equal(decimal.RequireFromString("241.00")))
	require.True(t, items[1].LineTotal.Equal(decimal.RequireFromString("39.90")))
	require.True(t, total.Equal(decimal.RequireFromString("280.90")))
}

func TestBuildOrderItemsMissingProduct(t *testing.T) {
	products := map[uint]model.Product{
		1: {ProductID: 1, Title: "Keyboard", Price: decimal.RequireFromString("120.50"), Stock: 5},
	}

	_, _, err := buildOrderItems(products, []OrderLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestBuildOrderItemsNotEnoughStock(t *testing.T) {
	products := map[uint]model.Product{
		1: {ProductID: 1, Title: "Keyboard", Price: decimal.RequireFromString("120.50"), Stock: 1},
	}

	_, _, err := buildOrderItems(products, []OrderLine{{ProductID: 1, Quantity: 2}})
	require.True(t, errors.Is(err, ErrNotEnoughStock))
}

func TestNewTrackingNumber(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tn := newTrackingNumber()
		require.True(t, strings.HasPrefix(tn, "TRK-"), tn)
		require.Len(t, tn, 16, tn)
		require.Equal(t, strings.ToUpper(tn), tn, tn)

		_, dup := seen[tn]
		require.False(t, dup, "duplicate tracking number %s", tn)
		seen[tn] = struct{}{}
	}
}
