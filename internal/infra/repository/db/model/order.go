package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func IsValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// 狀態順位 用於判斷只能往前推進
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// CanTransitionTo 狀態機: pending → processing → shipped → delivered 單向前進
// cancelled不經由一般狀態更新, 要走取消流程做庫存回補
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return false
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// CanCancel 只有pending/processing可取消
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func IsValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// 下單時的收件地址快照
type ShippingAddress struct {
	FullName   string `gorm:"not null;type:varchar(100)" json:"full_name"`
	Line1      string `gorm:"not null;type:varchar(255)" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City       string `gorm:"not null;type:varchar(100)" json:"city"`
	State      string `gorm:"not null;type:varchar(100)" json:"state"`
	PostalCode string `gorm:"not null;type:varchar(20)" json:"postal_code"`
	Country    string `gorm:"type:varchar(100)" json:"country,omitempty"`
	Phone      string `gorm:"not null;type:varchar(30)" json:"phone"`
}

type Order struct {
	OrderID           uint            `gorm:"primaryKey" json:"order_id"`
	UserID            uuid.UUID       `gorm:"not null;type:uuid;index" json:"user_id"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	ShippingAddress   ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	TotalPrice        decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_price"`
	Status            OrderStatus     `gorm:"not null;default:'pending';type:varchar(20);index" json:"status"`
	PaymentStatus     PaymentStatus   `gorm:"not null;default:'pending';type:varchar(20)" json:"payment_status"`
	PaymentMethod     string          `gorm:"not null;type:varchar(30)" json:"payment_method"`
	TrackingNumber    string          `gorm:"uniqueIndex;type:varchar(40)" json:"tracking_number"`
	CancelReason      string          `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	EstimatedDelivery time.Time       `gorm:"not null" json:"estimated_delivery"`
	BaseModel
}

// 訂單項目為下單當下的商品快照 商品後續異動不影響歷史訂單
type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	Title       string          `gorm:"not null;type:varchar(255)" json:"title"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
	UnitPrice   decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"line_total"`
}
