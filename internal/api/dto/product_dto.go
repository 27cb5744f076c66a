package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID                 uint             `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	ImageURL           string           `json:"image_url"`
	Price              decimal.Decimal  `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercentage int              `json:"discount_percentage"`
	Stock              int              `json:"stock"`
	Category           string           `json:"category"`
	Rating             decimal.Decimal  `json:"rating"`
	ReviewsCount       int              `json:"reviews_count"`
	IsApproved         bool             `json:"is_approved"`
	CreatedAt          time.Time        `json:"created_at"`
}

// 商品詳情 多帶評論
type ProductDetailDTO struct {
	ProductDTO
	Reviews []ReviewDTO `json:"reviews"`
}

type CreateProductDTO struct {
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description"`
	ImageURL      string           `json:"image_url"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Stock         int              `json:"stock" validate:"gte=0"`
	Category      string           `json:"category" validate:"required"`
	IsApproved    bool             `json:"is_approved"`
}

// 部分更新 省略的欄位不動
type UpdateProductDTO struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Stock         *int             `json:"stock"`
	Category      *string          `json:"category"`
	IsApproved    *bool            `json:"is_approved"`
}
