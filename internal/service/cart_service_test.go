package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*CartService, *fakeProductRepo, *fakeCartRepo) {
	products := newFakeProductRepo()
	cart := newFakeCartRepo(products)
	return NewCartService(cart, products), products, cart
}

func TestAddItemNewAndAccumulate(t *testing.T) {
	svc, products, _ := newCartFixture()
	userID := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 5)

	item, err := svc.AddItem(context.Background(), userID, product.ProductID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, item.Quantity)

	// 同商品再加 數量累加在同一列
	item, err = svc.AddItem(context.Background(), userID, product.ProductID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)

	// 累加後超過庫存
	_, err = svc.AddItem(context.Background(), userID, product.ProductID, 1)
	require.Error(t, err)
	require.Equal(t, er.InsufficientStockCode, er.CodeOf(err))
}

func TestAddItemGuards(t *testing.T) {
	svc, products, _ := newCartFixture()
	userID := uuid.New()
	approved := seedProduct(t, products, "Keyboard", 100, 5)

	unapproved := &model.Product{Title: "Draft", Price: decimal.NewFromInt(10), Stock: 5, IsApproved: false}
	require.NoError(t, products.CreateProduct(context.Background(), unapproved))

	_, err := svc.AddItem(context.Background(), userID, approved.ProductID, 0)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = svc.AddItem(context.Background(), userID, 9999, 1)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))

	// 未上架商品視為不存在
	_, err = svc.AddItem(context.Background(), userID, unapproved.ProductID, 1)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestUpdateItemOwnership(t *testing.T) {
	svc, products, _ := newCartFixture()
	owner := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 5)

	item, err := svc.AddItem(context.Background(), owner, product.ProductID, 1)
	require.NoError(t, err)

	// 別人的購物車項目回not found 不回forbidden
	_, err = svc.UpdateItem(context.Background(), uuid.New(), item.CartItemID, 2)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))

	updated, err := svc.UpdateItem(context.Background(), owner, item.CartItemID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateItem(context.Background(), owner, item.CartItemID, 6)
	require.Equal(t, er.InsufficientStockCode, er.CodeOf(err))
}

func TestRemoveItemAndClear(t *testing.T) {
	svc, products, cart := newCartFixture()
	userID := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 5)

	item, err := svc.AddItem(context.Background(), userID, product.ProductID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), userID, item.CartItemID))

	// 已不存在的項目
	err = svc.RemoveItem(context.Background(), userID, item.CartItemID)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))

	// 清空是冪等的
	require.NoError(t, svc.ClearCart(context.Background(), userID))
	require.NoError(t, svc.ClearCart(context.Background(), userID))

	items, err := cart.GetCartItems(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestComputeCartSummary(t *testing.T) {
	originalPrice := decimal.NewFromFloat(120)
	items := []model.CartItem{
		{
			Quantity: 2,
			Product: model.Product{
				ProductID:     1,
				Price:         decimal.NewFromFloat(100),
				OriginalPrice: &originalPrice,
			},
		},
		{
			Quantity: 3,
			Product: model.Product{
				ProductID: 2,
				Price:     decimal.NewFromFloat(10.5),
			},
		},
	}

	summary := ComputeCartSummary(items)
	require.Equal(t, 5, summary.ItemsCount)
	require.True(t, summary.Subtotal.Equal(decimal.NewFromFloat(231.5)), "subtotal=%s", summary.Subtotal)
	require.True(t, summary.Savings.Equal(decimal.NewFromFloat(40)), "savings=%s", summary.Savings)
	require.True(t, summary.Total.Equal(summary.Subtotal))
}

func TestGetCartSkipsStaleLines(t *testing.T) {
	svc, products, cart := newCartFixture()
	userID := uuid.New()
	product := seedProduct(t, products, "Keyboard", 100, 5)

	_, err := svc.AddItem(context.Background(), userID, product.ProductID, 2)
	require.NoError(t, err)

	// 商品已被刪除的殘留購物車列
	require.NoError(t, cart.CreateCartItem(context.Background(), &model.CartItem{
		UserID:    userID,
		ProductID: 9999,
		Quantity:  1,
	}))

	view, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 2, view.Summary.ItemsCount)
}
