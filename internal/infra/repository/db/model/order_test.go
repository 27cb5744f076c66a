package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		// 不可回頭
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusPending, false},
		// cancelled要走取消流程
		{OrderStatusPending, OrderStatusCancelled, false},
		{OrderStatusProcessing, OrderStatusCancelled, false},
		// 終態與未知狀態
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatus("unknown"), OrderStatusShipped, false},
		{OrderStatusPending, OrderStatus("unknown"), false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusCanCancel(t *testing.T) {
	require.True(t, OrderStatusPending.CanCancel())
	require.True(t, OrderStatusProcessing.CanCancel())
	require.False(t, OrderStatusShipped.CanCancel())
	require.False(t, OrderStatusDelivered.CanCancel())
	require.False(t, OrderStatusCancelled.CanCancel())
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		require.True(t, IsValidOrderStatus(s), s)
	}
	require.False(t, IsValidOrderStatus("refunded"))
	require.False(t, IsValidOrderStatus(""))
	require.False(t, IsValidOrderStatus("Pending"))
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, s := range []string{"pending", "paid", "failed", "refunded"} {
		require.True(t, IsValidPaymentStatus(s), s)
	}
	require.False(t, IsValidPaymentStatus("shipped"))
	require.False(t, IsValidPaymentStatus(""))
}
