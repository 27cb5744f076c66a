package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ReviewID         uint      `gorm:"primaryKey" json:"review_id"`
	ProductID        uint      `gorm:"not null;index" json:"product_id"`
	UserID           uuid.UUID `gorm:"not null;type:uuid" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	Rating           int       `gorm:"not null" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`
	VerifiedPurchase bool      `gorm:"not null;default:false" json:"verified_purchase"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}
