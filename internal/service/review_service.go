package service

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
)

type AddReviewInput struct {
	Rating  int
	Comment string
}

type IReviewService interface {
	AddReview(ctx context.Context, userID uuid.UUID, productID uint, input AddReviewInput) (*model.Review, error)
	ListReviews(ctx context.Context, productID uint) ([]model.Review, error)
}

type ReviewService struct {
	reviewRepo       db.IReviewRepository
	productRepo      db.IProductRepository
	cacheInvalidator ProductCacheInvalidator
}

func NewReviewService(reviewRepo db.IReviewRepository, productRepo db.IProductRepository, cacheInvalidator ProductCacheInvalidator) *ReviewService {
	return &ReviewService{
		reviewRepo:       reviewRepo,
		productRepo:      productRepo,
		cacheInvalidator: cacheInvalidator,
	}
}

// AddReview 新增評論並重算商品評分
// 有買過該商品(訂單未取消)才標記verified_purchase
func (s *ReviewService) AddReview(ctx context.Context, userID uuid.UUID, productID uint, input AddReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, er.New(er.InvalidValueCode, "rating must be between 1 and 5")
	}

	purchased, err := s.reviewRepo.HasPurchasedProduct(ctx, userID, productID)
	if err != nil {
		return nil, mapDbErr(err, "")
	}

	review := &model.Review{
		ProductID:        productID,
		UserID:           userID,
		Rating:           input.Rating,
		Comment:          strings.TrimSpace(input.Comment),
		VerifiedPurchase: purchased,
	}
	if err := s.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, mapDbErr(err, "product not found")
	}

	// 評分寫在products上 快取裡的舊值要失效
	if s.cacheInvalidator != nil {
		s.cacheInvalidator.Invalidate(ctx, productID)
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, mapDbErr(err, "product not found")
	}
	reviews, err := s.reviewRepo.GetReviewsByProductID(ctx, productID)
	if err != nil {
		return nil, mapDbErr(err, "")
	}
	return reviews, nil
}
