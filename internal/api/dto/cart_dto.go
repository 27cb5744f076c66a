package dto

import "github.com/shopspring/decimal"

type AddCartItemDTO struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemDTO struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartItemDTO struct {
	ID       uint       `json:"id"`
	Product  ProductDTO `json:"product"`
	Quantity int        `json:"quantity"`
}

type CartSummaryDTO struct {
	ItemsCount int             `json:"items_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Savings    decimal.Decimal `json:"savings"`
	Total      decimal.Decimal `json:"total"`
}

type CartViewDTO struct {
	Items   []CartItemDTO  `json:"items"`
	Summary CartSummaryDTO `json:"summary"`
}
