package db

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewsByProductID(ctx context.Context, productID uint) ([]model.Review, error)
	HasPurchasedProduct(ctx context.Context, userID uuid.UUID, productID uint) (bool, error)
}

type ReviewRepo struct {
	db *DbDao
}

func NewReviewRepo(db *DbDao) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// CreateReview 新增評論並於同一交易內重算商品的rating/reviews_count
// 商品上的彙總欄位永遠跟評論表一致
func (s *ReviewRepo) CreateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Product{}).
			Where("product_id = ?", review.ProductID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		return tx.Exec(`
			UPDATE products SET
				rating = sub.avg_rating,
				reviews_count = sub.cnt
			FROM (
				SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating, COUNT(*) AS cnt
				FROM reviews WHERE product_id = ?
			) AS sub
			WHERE product_id = ?`,
			review.ProductID, review.ProductID).Error
	})
}

func (s *ReviewRepo) GetReviewsByProductID(ctx context.Context, productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// 使用者是否有含該商品的已送達訂單 用於verified purchase標記
// 只認delivered 尚未完成或已取消的訂單不算購買
func (s *ReviewRepo) HasPurchasedProduct(ctx context.Context, userID uuid.UUID, productID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.order_id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status = ?",
			userID, productID, model.OrderStatusDelivered).
		Count(&count).Error
	return count > 0, err
}
