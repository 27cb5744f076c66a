package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// in-memory假repo 給service層單元測試用 行為對齊db實作的sentinel error

type fakeProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*model.Product{}, nextID: 1}
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, product *model.Product) error {
	product.ProductID = f.nextID
	f.nextID++
	clone := *product
	f.products[product.ProductID] = &clone
	return nil
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id uint) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProductRepo) GetProductWithReviews(ctx context.Context, id uint) (*model.Product, error) {
	return f.GetProductByID(ctx, id)
}

func (f *fakeProductRepo) GetProductsFiltered(_ context.Context, filter db.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, product := range f.products {
		if filter.ApprovedOnly && !product.IsApproved {
			continue
		}
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) UpdateProduct(_ context.Context, product *model.Product) error {
	if _, ok := f.products[product.ProductID]; !ok {
		return db.ErrNotFound
	}
	clone := *product
	f.products[product.ProductID] = &clone
	return nil
}

func (f *fakeProductRepo) DeleteProduct(_ context.Context, id uint) error {
	if _, ok := f.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeCartRepo struct {
	products *fakeProductRepo
	items    map[uint]*model.CartItem
	nextID   uint
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{products: products, items: map[uint]*model.CartItem{}, nextID: 1}
}

// 模擬Preload: 商品還在就帶出關聯 不在就留零值
func (f *fakeCartRepo) GetCartItems(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		clone := *item
		if product, ok := f.products.products[item.ProductID]; ok {
			clone.Product = *product
		}
		out = append(out, clone)
	}
	return out, nil
}

func (f *fakeCartRepo) GetCartItemByID(_ context.Context, itemID uint) (*model.CartItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (f *fakeCartRepo) GetCartItemByProduct(_ context.Context, userID uuid.UUID, productID uint) (*model.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeCartRepo) CreateCartItem(_ context.Context, item *model.CartItem) error {
	item.CartItemID = f.nextID
	f.nextID++
	clone := *item
	f.items[item.CartItemID] = &clone
	return nil
}

func (f *fakeCartRepo) UpdateCartItemQuantity(_ context.Context, itemID uint, quantity int) error {
	item, ok := f.items[itemID]
	if !ok {
		return db.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartRepo) DeleteCartItem(_ context.Context, itemID uint) error {
	if _, ok := f.items[itemID]; !ok {
		return db.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartRepo) ClearCart(_ context.Context, userID uuid.UUID) error {
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

// fakeOrderRepo 模擬下單交易語意: 驗證全過才扣庫存/建單/清車
// afterGet可在測試裡插進讀取與寫入之間 模擬併發交錯
type fakeOrderRepo struct {
	products *fakeProductRepo
	cart     *fakeCartRepo
	orders   map[uint]*model.Order
	nextID   uint
	afterGet func()
}

func newFakeOrderRepo(products *fakeProductRepo, cart *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{products: products, cart: cart, orders: map[uint]*model.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) PlaceOrder(ctx context.Context, userID uuid.UUID, lines []db.OrderLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	var items []model.OrderItem
	total := decimal.Zero
	for _, line := range lines {
		product, ok := f.products.products[line.ProductID]
		if !ok || !product.IsApproved {
			return nil, db.ErrNotFound
		}
		if product.Stock < line.Quantity {
			return nil, db.ErrNotEnoughStock
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Title:     product.Title,
			ImageURL:  product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	for _, line := range lines {
		f.products.products[line.ProductID].Stock -= line.Quantity
	}

	now := time.Now().UTC()
	order := &model.Order{
		OrderID:           f.nextID,
		UserID:            userID,
		OrderItems:        items,
		ShippingAddress:   addr,
		TotalPrice:        total,
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentMethod:     paymentMethod,
		TrackingNumber:    fmt.Sprintf("TRK-%012d", f.nextID),
		EstimatedDelivery: now.AddDate(0, 0, 7),
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	f.nextID++
	f.orders[order.OrderID] = order
	_ = f.cart.ClearCart(ctx, userID)

	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id uint) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *order
	if f.afterGet != nil {
		f.afterGet()
	}
	return &clone, nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetOrdersPaginated(_ context.Context, page, pageSize int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) GetOrderByTrackingNumber(_ context.Context, trackingNumber string) (*model.Order, error) {
	for _, order := range f.orders {
		if order.TrackingNumber == trackingNumber {
			clone := *order
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id uint, from, to model.OrderStatus, trackingNumber string) error {
	order, ok := f.orders[id]
	if !ok {
		return db.ErrNotFound
	}
	if order.Status != from {
		return db.ErrInvalidTransition
	}
	order.Status = to
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	return nil
}

func (f *fakeOrderRepo) UpdateOrderPaymentStatus(_ context.Context, id uint, status model.PaymentStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return db.ErrNotFound
	}
	order.PaymentStatus = status
	return nil
}

func (f *fakeOrderRepo) CancelOrder(_ context.Context, id uint, reason string) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if !order.Status.CanCancel() {
		return nil, db.ErrInvalidTransition
	}
	order.Status = model.OrderStatusCancelled
	order.CancelReason = reason
	order.UpdatedAt = time.Now().UTC()
	for _, item := range order.OrderItems {
		if product, ok := f.products.products[item.ProductID]; ok {
			product.Stock += item.Quantity
		}
	}
	clone := *order
	return &clone, nil
}

type fakeReviewRepo struct {
	products  *fakeProductRepo
	reviews   []model.Review
	purchased map[string]bool
	nextID    uint
}

func newFakeReviewRepo(products *fakeProductRepo) *fakeReviewRepo {
	return &fakeReviewRepo{products: products, purchased: map[string]bool{}, nextID: 1}
}

func purchaseKey(userID uuid.UUID, productID uint) string {
	return fmt.Sprintf("%s/%d", userID, productID)
}

func (f *fakeReviewRepo) markPurchased(userID uuid.UUID, productID uint) {
	f.purchased[purchaseKey(userID, productID)] = true
}

func (f *fakeReviewRepo) CreateReview(_ context.Context, review *model.Review) error {
	product, ok := f.products.products[review.ProductID]
	if !ok {
		return db.ErrNotFound
	}
	review.ReviewID = f.nextID
	f.nextID++
	f.reviews = append(f.reviews, *review)

	sum := 0
	count := 0
	for _, r := range f.reviews {
		if r.ProductID == review.ProductID {
			sum += r.Rating
			count++
		}
	}
	product.Rating = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(1)
	product.ReviewsCount = count
	return nil
}

func (f *fakeReviewRepo) GetReviewsByProductID(_ context.Context, productID uint) ([]model.Review, error) {
	var out []model.Review
	for _, review := range f.reviews {
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) HasPurchasedProduct(_ context.Context, userID uuid.UUID, productID uint) (bool, error) {
	return f.purchased[purchaseKey(userID, productID)], nil
}

type fakeInvalidator struct {
	ids []uint
}

func (f *fakeInvalidator) Invalidate(_ context.Context, ids ...uint) {
	f.ids = append(f.ids, ids...)
}
