package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ICartRepository interface {
	GetCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	GetCartItemByID(ctx context.Context, itemID uint) (*model.CartItem, error)
	GetCartItemByProduct(ctx context.Context, userID uuid.UUID, productID uint) (*model.CartItem, error)
	CreateCartItem(ctx context.Context, item *model.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteCartItem(ctx context.Context, itemID uint) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// 取得購物車 帶上即時商品資料供計算小計/折扣
func (s *CartRepo) GetCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

func (s *CartRepo) GetCartItemByID(ctx context.Context, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).Preload("Product").First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) GetCartItemByProduct(ctx context.Context, userID uuid.UUID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartRepo) UpdateCartItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, itemID uint) error {
	result := s.db.WithContext(ctx).Delete(&model.CartItem{}, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// 清空購物車 冪等 空購物車不是錯誤
func (s *CartRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
