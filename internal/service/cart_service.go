package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartSummary struct {
	ItemsCount int             `json:"items_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Savings    decimal.Decimal `json:"savings"`
	Total      decimal.Decimal `json:"total"`
}

type CartView struct {
	Items   []model.CartItem `json:"items"`
	Summary CartSummary      `json:"summary"`
}

type ICartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, productID uint, quantity int) (*model.CartItem, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uint) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartService struct {
	cartRepo    db.ICartRepository
	productRepo db.IProductRepository
}

func NewCartService(cartRepo db.ICartRepository, productRepo db.IProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// AddItem 加入購物車
// 同商品已在車內時走數量累加 累加後不可超過即時庫存
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, er.New(er.BadRequestCode, "quantity must be at least 1")
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, mapDbErr(err, "product not found")
	}
	if !product.IsApproved {
		return nil, er.New(er.NotFoundCode, "product not found")
	}

	existing, err := s.cartRepo.GetCartItemByProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, mapDbErr(err, "")
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		return nil, er.New(er.InsufficientStockCode,
			fmt.Sprintf("only %d of %q in stock", product.Stock, product.Title))
	}

	if existing != nil {
		if err := s.cartRepo.UpdateCartItemQuantity(ctx, existing.CartItemID, newQuantity); err != nil {
			return nil, mapDbErr(err, "cart item not found")
		}
		existing.Quantity = newQuantity
		existing.Product = *product
		return existing, nil
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.CreateCartItem(ctx, item); err != nil {
		return nil, mapDbErr(err, "")
	}
	item.Product = *product
	return item, nil
}

// UpdateItem 改數量
// 不是自己的購物車項目一律回not found 不暴露資源存在
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, er.New(er.BadRequestCode, "quantity must be at least 1")
	}

	item, err := s.cartRepo.GetCartItemByID(ctx, itemID)
	if err != nil {
		return nil, mapDbErr(err, "cart item not found")
	}
	if item.UserID != userID {
		return nil, er.New(er.NotFoundCode, "cart item not found")
	}

	product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, mapDbErr(err, "product not found")
	}
	if quantity > product.Stock {
		return nil, er.New(er.InsufficientStockCode,
			fmt.Sprintf("only %d of %q in stock", product.Stock, product.Title))
	}

	if err := s.cartRepo.UpdateCartItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, mapDbErr(err, "cart item not found")
	}
	item.Quantity = quantity
	item.Product = *product
	return item, nil
}

// RemoveItem 移除單一項目 對已不存在的項目回not found
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uint) error {
	item, err := s.cartRepo.GetCartItemByID(ctx, itemID)
	if err != nil {
		return mapDbErr(err, "cart item not found")
	}
	if item.UserID != userID {
		return er.New(er.NotFoundCode, "cart item not found")
	}
	if err := s.cartRepo.DeleteCartItem(ctx, itemID); err != nil {
		return mapDbErr(err, "cart item not found")
	}
	return nil
}

// ClearCart 冪等 清空空購物車不是錯誤
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return mapDbErr(err, "")
	}
	return nil
}

// GetCart 購物車內容與即時商品join後的彙總 純讀取無副作用
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, mapDbErr(err, "")
	}

	// 商品已下架/刪除的殘留項目不列入
	liveItems := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Product.ProductID != 0 {
			liveItems = append(liveItems, item)
		}
	}

	return &CartView{
		Items:   liveItems,
		Summary: ComputeCartSummary(liveItems),
	}, nil
}

// ComputeCartSummary 彙總: 總件數/小計/省下金額/應付總額
// savings = (定價-售價)*數量 只計有設定定價的商品
func ComputeCartSummary(items []model.CartItem) CartSummary {
	summary := CartSummary{
		Subtotal: decimal.Zero,
		Savings:  decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		summary.ItemsCount += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(item.Product.Price.Mul(qty))
		if item.Product.OriginalPrice != nil && item.Product.OriginalPrice.GreaterThan(item.Product.Price) {
			summary.Savings = summary.Savings.Add(
				item.Product.OriginalPrice.Sub(item.Product.Price).Mul(qty))
		}
	}
	summary.Total = summary.Subtotal
	return summary
}
