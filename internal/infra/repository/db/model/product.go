package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID          uint             `gorm:"primaryKey" json:"product_id"`
	Title              string           `gorm:"not null;type:varchar(255)" json:"title"`
	Description        string           `gorm:"not null;type:text" json:"description"`
	ImageURL           string           `gorm:"type:varchar(512)" json:"image_url"`
	Price              decimal.Decimal  `gorm:"not null;type:decimal(10,2)" json:"price"`
	OriginalPrice      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"original_price,omitempty"`
	DiscountPercentage int              `gorm:"not null;default:0" json:"discount_percentage"`
	Stock              int              `gorm:"not null;type:int" json:"stock"`
	Category           string           `gorm:"not null;index;type:varchar(50)" json:"category"`
	IsApproved         bool             `gorm:"not null;default:false;index" json:"is_approved"`
	Rating             decimal.Decimal  `gorm:"not null;default:0;type:decimal(2,1)" json:"rating"`
	ReviewsCount       int              `gorm:"not null;default:0" json:"reviews_count"`
	Reviews            []Review         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	BaseModel
}

// DeriveDiscountPercentage 依定價與售價推導折扣百分比
// 未設定定價或定價不高於售價時為0
func DeriveDiscountPercentage(price decimal.Decimal, originalPrice *decimal.Decimal) int {
	if originalPrice == nil || originalPrice.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	if originalPrice.LessThanOrEqual(price) {
		return 0
	}
	pct := originalPrice.Sub(price).
		Div(*originalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart())
}
