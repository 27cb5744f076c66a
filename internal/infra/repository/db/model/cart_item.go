package model

import (
	"time"

	"github.com/google/uuid"
)

// 購物車為暫態資料 不做軟刪除
// (user_id, product_id) 唯一, 重複加入同商品走數量累加
type CartItem struct {
	CartItemID uint      `gorm:"primaryKey" json:"cart_item_id"`
	UserID     uuid.UUID `gorm:"not null;type:uuid;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"null" json:"updated_at"`
}
