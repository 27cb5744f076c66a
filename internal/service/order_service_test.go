package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   "Royce Chen",
		Line1:      "No.1 Sec.1 Roosevelt Rd",
		City:       "Taipei",
		State:      "TW",
		PostalCode: "100",
		Country:    "Taiwan",
		Phone:      "0912345678",
	}
}

func seedProduct(t *testing.T, repo *fakeProductRepo, title string, price float64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:      title,
		Price:      decimal.NewFromFloat(price),
		Stock:      stock,
		Category:   "electronics",
		IsApproved: true,
	}
	require.NoError(t, repo.CreateProduct(context.Background(), product))
	return product
}

func newOrderFixture() (*OrderService, *fakeProductRepo, *fakeCartRepo, *fakeOrderRepo, *fakeInvalidator) {
	products := newFakeProductRepo()
	cart := newFakeCartRepo(products)
	orders := newFakeOrderRepo(products, cart)
	invalidator := &fakeInvalidator{}
	svc := NewOrderService(orders, cart, invalidator)
	return svc, products, cart, orders, invalidator
}

func TestPlaceOrderWithExplicitItems(t *testing.T) {
	svc, products, _, _, invalidator := newOrderFixture()
	userID := uuid.New()
	p1 := seedProduct(t, products, "Keyboard", 100, 10)
	p2 := seedProduct(t, products, "Mouse", 50.5, 5)

	order, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		Items: []db.OrderLine{
			{ProductID: p1.ProductID, Quantity: 2},
			{ProductID: p2.ProductID, Quantity: 1},
		},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.OrderItems, 2)
	require.True(t, order.TotalPrice.Equal(decimal.NewFromFloat(250.5)))
	require.NotEmpty(t, order.TrackingNumber)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 7), order.EstimatedDelivery, time.Minute)

	// 庫存已扣 快取已失效
	got, err := products.GetProductByID(context.Background(), p1.ProductID)
	require.NoError(t, err)
	require.Equal(t, 8, got.Stock)
	require.ElementsMatch(t, []uint{p1.ProductID, p2.ProductID}, invalidator.ids)
}

func TestPlaceOrderFallsBackToCart(t *testing.T) {
	svc, products, cart, _, _ := newOrderFixture()
	userID := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	require.NoError(t, cart.CreateCartItem(context.Background(), &model.CartItem{
		UserID:    userID,
		ProductID: product.ProductID,
		Quantity:  3,
	}))

	order, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	require.Equal(t, 3, order.OrderItems[0].Quantity)

	// 下單成功後購物車清空
	items, err := cart.GetCartItems(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestPlaceOrderEmptyCartAndNoItems(t *testing.T) {
	svc, _, _, _, _ := newOrderFixture()

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.Error(t, err)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, products, _, _, invalidator := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 2)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 3}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.Error(t, err)
	require.Equal(t, er.InsufficientStockCode, er.CodeOf(err))
	require.Empty(t, invalidator.ids)
}

func TestPlaceOrderShippingAddressValidation(t *testing.T) {
	svc, products, _, _, _ := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)

	addr := validAddress()
	addr.PostalCode = ""
	addr.Phone = "  "

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: addr,
		PaymentMethod:   "credit_card",
	})
	require.Error(t, err)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	require.Contains(t, err.Error(), "postal_code")
	require.Contains(t, err.Error(), "phone")
}

func TestGetOrderVisibility(t *testing.T) {
	svc, products, _, _, _ := newOrderFixture()
	owner := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), owner, PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)

	// 本人可讀
	got, err := svc.GetOrder(context.Background(), Actor{UserID: owner, Role: constants.RoleUser}, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, order.OrderID, got.OrderID)

	// admin可讀
	_, err = svc.GetOrder(context.Background(), Actor{UserID: uuid.New(), Role: constants.RoleAdmin}, order.OrderID)
	require.NoError(t, err)

	// 其他人視為不存在
	_, err = svc.GetOrder(context.Background(), Actor{UserID: uuid.New(), Role: constants.RoleUser}, order.OrderID)
	require.Error(t, err)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestUpdateStatusTransitions(t *testing.T) {
	testCases := []struct {
		name     string
		from     model.OrderStatus
		to       string
		wantCode er.Code
	}{
		{name: "pending to processing", from: model.OrderStatusPending, to: "processing"},
		{name: "processing to shipped", from: model.OrderStatusProcessing, to: "shipped"},
		{name: "shipped to delivered", from: model.OrderStatusShipped, to: "delivered"},
		{name: "skip backwards", from: model.OrderStatusShipped, to: "processing", wantCode: er.InvalidTransitionCode},
		{name: "delivered is terminal", from: model.OrderStatusDelivered, to: "shipped", wantCode: er.InvalidTransitionCode},
		{name: "cancel via status update", from: model.OrderStatusPending, to: "cancelled", wantCode: er.InvalidTransitionCode},
		{name: "unknown status", from: model.OrderStatusPending, to: "lost", wantCode: er.InvalidValueCode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, products, _, orders, _ := newOrderFixture()
			product := seedProduct(t, products, "Keyboard", 100, 10)
			order, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
				Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
				ShippingAddress: validAddress(),
				PaymentMethod:   "credit_card",
			})
			require.NoError(t, err)
			orders.orders[order.OrderID].Status = tc.from

			updated, err := svc.UpdateStatus(context.Background(), order.OrderID, tc.to, "")
			if tc.wantCode != 0 {
				require.Error(t, err)
				require.Equal(t, tc.wantCode, er.CodeOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.OrderStatus(tc.to), updated.Status)
		})
	}
}

func TestUpdateStatusSetsTrackingNumber(t *testing.T) {
	svc, products, _, _, _ := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.OrderID, "processing", "CARRIER-999")
	require.NoError(t, err)
	require.Equal(t, "CARRIER-999", updated.TrackingNumber)
}

func TestUpdateStatusLosesRaceToCancellation(t *testing.T) {
	svc, products, _, orders, _ := newOrderFixture()
	owner := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), owner, PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)

	// 驗證完pending後 寫入前訂單被取消 更新必須失敗而不是蓋掉cancelled
	orders.afterGet = func() {
		orders.afterGet = nil
		_, err := svc.CancelOrder(context.Background(), Actor{UserID: owner, Role: constants.RoleUser}, order.OrderID, "changed my mind")
		require.NoError(t, err)
	}

	_, err = svc.UpdateStatus(context.Background(), order.OrderID, "shipped", "")
	require.Error(t, err)
	require.Equal(t, er.InvalidTransitionCode, er.CodeOf(err))

	kept := orders.orders[order.OrderID]
	require.Equal(t, model.OrderStatusCancelled, kept.Status)

	// 取消補回的庫存也不能被動到
	got, err := products.GetProductByID(context.Background(), product.ProductID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Stock)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, products, _, _, invalidator := newOrderFixture()
	owner := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), owner, PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 4}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)
	invalidator.ids = nil

	cancelled, err := svc.CancelOrder(context.Background(), Actor{UserID: owner, Role: constants.RoleUser}, order.OrderID, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, "changed my mind", cancelled.CancelReason)

	got, err := products.GetProductByID(context.Background(), product.ProductID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Stock)
	require.Equal(t, []uint{product.ProductID}, invalidator.ids)
}

func TestCancelOrderRules(t *testing.T) {
	svc, products, _, orders, _ := newOrderFixture()
	owner := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), owner, PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)

	// 非本人又非admin
	_, err = svc.CancelOrder(context.Background(), Actor{UserID: uuid.New(), Role: constants.RoleUser}, order.OrderID, "")
	require.Equal(t, er.UnauthorizedCode, er.CodeOf(err))

	// 已出貨不能取消
	orders.orders[order.OrderID].Status = model.OrderStatusShipped
	_, err = svc.CancelOrder(context.Background(), Actor{UserID: owner, Role: constants.RoleUser}, order.OrderID, "")
	require.Equal(t, er.InvalidTransitionCode, er.CodeOf(err))

	// admin可替使用者取消
	orders.orders[order.OrderID].Status = model.OrderStatusProcessing
	_, err = svc.CancelOrder(context.Background(), Actor{UserID: uuid.New(), Role: constants.RoleAdmin}, order.OrderID, "fraud check")
	require.NoError(t, err)
}

func TestTrackByNumberMilestones(t *testing.T) {
	svc, products, _, orders, _ := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)
	orders.orders[order.OrderID].Status = model.OrderStatusShipped

	info, err := svc.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusShipped, info.Status)
	require.Len(t, info.Milestones, 4)
	require.True(t, info.Milestones[0].Reached)  // placed
	require.True(t, info.Milestones[1].Reached)  // processing
	require.True(t, info.Milestones[2].Reached)  // shipped
	require.False(t, info.Milestones[3].Reached) // delivered
	require.Equal(t, order.EstimatedDelivery, info.Milestones[3].At)

	_, err = svc.TrackByNumber(context.Background(), "TRK-UNKNOWN")
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestTrackByNumberCancelled(t *testing.T) {
	svc, products, _, orders, _ := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)
	orders.orders[order.OrderID].Status = model.OrderStatusCancelled

	info, err := svc.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Len(t, info.Milestones, 2)
	require.Equal(t, model.OrderStatusCancelled, info.Milestones[1].Status)
	require.True(t, info.Milestones[1].Reached)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, products, _, _, _ := newOrderFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	order, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:           []db.OrderLine{{ProductID: product.ProductID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "credit_card",
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(context.Background(), order.OrderID, "paid")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), order.OrderID, "maybe")
	require.Equal(t, er.InvalidValueCode, er.CodeOf(err))
}
