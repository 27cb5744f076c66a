package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingAddressDTO struct {
	FullName   string `json:"full_name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"`
	Phone      string `json:"phone" validate:"required"`
}

type OrderLineDTO struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// items省略時以購物車內容下單
type PlaceOrderDTO struct {
	Items           []OrderLineDTO     `json:"items" validate:"omitempty,dive"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required"`
}

type OrderItemDTO struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderDTO struct {
	ID                uint               `json:"id"`
	Items             []OrderItemDTO     `json:"items"`
	ShippingAddress   ShippingAddressDTO `json:"shipping_address"`
	TotalPrice        decimal.Decimal    `json:"total_price"`
	Status            string             `json:"status"`
	PaymentStatus     string             `json:"payment_status"`
	PaymentMethod     string             `json:"payment_method"`
	TrackingNumber    string             `json:"tracking_number"`
	CancelReason      string             `json:"cancel_reason,omitempty"`
	EstimatedDelivery time.Time          `json:"estimated_delivery"`
	CreatedAt         time.Time          `json:"created_at"`
}

type UpdateOrderStatusDTO struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number"`
}

type UpdatePaymentStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type CancelOrderDTO struct {
	Reason string `json:"reason"`
}
