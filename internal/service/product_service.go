package service

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Title         string
	Description   string
	ImageURL      string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         int
	Category      string
	IsApproved    bool
}

// 部分更新 nil欄位不動
type UpdateProductInput struct {
	Title         *string
	Description   *string
	ImageURL      *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         *int
	Category      *string
	IsApproved    *bool
}

type IProductService interface {
	ListProducts(ctx context.Context, filter db.ProductFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id uint, includeUnapproved bool) (*model.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductService struct {
	productRepo db.IProductRepository
}

func NewProductService(productRepo db.IProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) ListProducts(ctx context.Context, filter db.ProductFilter) ([]model.Product, int64, error) {
	products, total, err := s.productRepo.GetProductsFiltered(ctx, filter)
	if err != nil {
		return nil, 0, er.Wrap(er.InternalErrorCode, "", err)
	}
	return products, total, nil
}

// GetProduct 商品詳情含評論
// 未上架商品只有admin看得到 其他人視為不存在
func (s *ProductService) GetProduct(ctx context.Context, id uint, includeUnapproved bool) (*model.Product, error) {
	product, err := s.productRepo.GetProductWithReviews(ctx, id)
	if err != nil {
		return nil, mapDbErr(err, "product not found")
	}
	if !product.IsApproved && !includeUnapproved {
		return nil, er.New(er.NotFoundCode, "product not found")
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	if err := validatePricing(input.Price, input.OriginalPrice, input.Stock); err != nil {
		return nil, err
	}

	product := &model.Product{
		Title:              input.Title,
		Description:        input.Description,
		ImageURL:           input.ImageURL,
		Price:              input.Price,
		OriginalPrice:      input.OriginalPrice,
		DiscountPercentage: model.DeriveDiscountPercentage(input.Price, input.OriginalPrice),
		Stock:              input.Stock,
		Category:           input.Category,
		IsApproved:         input.IsApproved,
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, mapDbErr(err, "")
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapDbErr(err, "product not found")
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.IsApproved != nil {
		product.IsApproved = *input.IsApproved
	}

	if err := validatePricing(product.Price, product.OriginalPrice, product.Stock); err != nil {
		return nil, err
	}
	product.DiscountPercentage = model.DeriveDiscountPercentage(product.Price, product.OriginalPrice)

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, mapDbErr(err, "product not found")
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return mapDbErr(err, "product not found")
	}
	return nil
}

func validatePricing(price decimal.Decimal, originalPrice *decimal.Decimal, stock int) error {
	if price.IsNegative() {
		return er.New(er.BadRequestCode, "price cannot be negative")
	}
	if originalPrice != nil && originalPrice.LessThan(price) {
		return er.New(er.BadRequestCode, "original price cannot be lower than price")
	}
	if stock < 0 {
		return er.New(er.BadRequestCode, "stock cannot be negative")
	}
	return nil
}
