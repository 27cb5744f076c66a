package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 出貨預估: 下單日+7天
const estimatedDeliveryDays = 7

// 下單請求的單一明細
type OrderLine struct {
	ProductID uint
	Quantity  int
}

type IOrderRepository interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error)
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, from, to model.OrderStatus, trackingNumber string) error
	UpdateOrderPaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error
	CancelOrder(ctx context.Context, id uint, reason string) (*model.Order, error)
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// PlaceOrder 下單 全有全無
// 單一交易內完成: 鎖定商品 → 檢查庫存 → 建立訂單快照 → 條件式扣庫存 → 清空購物車
// 兩張併發訂單搶同一商品最後庫存時 條件式扣減保證只有一張成功
func (s *OrderRepo) PlaceOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order lines cannot be empty", ErrInvalidInput)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			productIDs = append(productIDs, line.ProductID)
		}

		var products []model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id IN ? AND is_approved = ?", productIDs, true).
			Find(&products).Error; err != nil {
			return fmt.Errorf("lock products: %w", err)
		}

		productMap := make(map[uint]model.Product, len(products))
		for _, p := range products {
			productMap[p.ProductID] = p
		}

		items, total, err := buildOrderItems(productMap, lines)
		if err != nil {
			return err
		}

		for _, line := range lines {
			result := tx.Model(&model.Product{}).
				Where("product_id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("reduce stock for product %d: %w", line.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", line.ProductID, ErrNotEnoughStock)
			}
		}

		now := time.Now().UTC()
		order = &model.Order{
			UserID:            userID,
			OrderItems:        items,
			ShippingAddress:   addr,
			TotalPrice:        total,
			Status:            model.OrderStatusPending,
			PaymentStatus:     model.PaymentStatusPending,
			PaymentMethod:     paymentMethod,
			TrackingNumber:    newTrackingNumber(),
			EstimatedDelivery: now.AddDate(0, 0, estimatedDeliveryDays),
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 不論下單來源是購物車或明細列表 購物車一律清空
		if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// 組訂單快照與總額 單價取當下商品售價 不是購物車當時的價格
func buildOrderItems(products map[uint]model.Product, lines []OrderLine) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("product %d: %w", line.ProductID, ErrNotFound)
		}
		if product.Stock < line.Quantity {
			return nil, decimal.Zero, fmt.Errorf("product %d: %w", line.ProductID, ErrNotEnoughStock)
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, model.OrderItem{
			ProductID: product.ProductID,
			Title:     product.Title,
			ImageURL:  product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

func newTrackingNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "TRK-" + raw[:12]
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// 分頁查詢訂單 for admin
func (s *OrderRepo) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize

	if err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.WithContext(ctx).Preload("OrderItems").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (s *OrderRepo) GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("tracking_number = ?", trackingNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus 條件式更新 只在狀態仍是caller驗證過的from時才寫入
// 避免吃掉併發取消: 驗證時讀到pending 寫入前被取消 無條件寫會把cancelled翻回shipped
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, id uint, from, to model.OrderStatus, trackingNumber string) error {
	updates := map[string]any{"status": to}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := s.db.WithContext(ctx).Model(&model.Order{}).
			Where("order_id = ?", id).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return fmt.Errorf("order %d no longer in status %s: %w", id, from, ErrInvalidTransition)
	}
	return nil
}

func (s *OrderRepo) UpdateOrderPaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelOrder 取消訂單並回補庫存
// 回補採加法 不是還原成下單前的值 中間發生過的其他庫存異動不受影響
func (s *OrderRepo) CancelOrder(ctx context.Context, id uint, reason string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("OrderItems").
			First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !order.Status.CanCancel() {
			return fmt.Errorf("order %d in status %s: %w", id, order.Status, ErrInvalidTransition)
		}

		// 條件式更新 避免與另一個取消/出貨請求互踩
		result := tx.Model(&model.Order{}).
			Where("order_id = ? AND status IN ?", id,
				[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusProcessing}).
			Updates(map[string]any{"status": model.OrderStatusCancelled, "cancel_reason": reason})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", id, ErrInvalidTransition)
		}

		for _, item := range order.OrderItems {
			if err := tx.Model(&model.Product{}).
				Where("product_id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
			}
		}

		order.Status = model.OrderStatusCancelled
		order.CancelReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
