package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品列表查詢條件
type ProductFilter struct {
	Category     string
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinRating    *decimal.Decimal
	ApprovedOnly bool
	SortBy       string
	SortOrder    constants.SortOrderEnum
	Page         int
	PageSize     int
}

// 可排序欄位白名單 避免把外部輸入直接塞進ORDER BY
var productSortColumns = map[string]string{
	"price":      "price",
	"rating":     "rating",
	"created_at": "created_at",
	"title":      "title",
}

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetProductWithReviews(ctx context.Context, id uint) (*model.Product, error)
	GetProductsFiltered(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create - 創建商品
func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// Read - 根據ID查詢商品
func (s *ProductRepo) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Read - 商品含評論 評論帶評論者 由新到舊
func (s *ProductRepo) GetProductWithReviews(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.User").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// 根據條件分頁查詢
func (s *ProductRepo) GetProductsFiltered(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Product{})

	if filter.ApprovedOnly {
		query = query.Where("is_approved = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn, ok := productSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	sortOrder := filter.SortOrder
	if !constants.IsValidSortOrderEnum(string(sortOrder)) {
		sortOrder = constants.SortOrderDesc
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPaging
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPagingSize
	}
	if pageSize > constants.MaxPagingSize {
		pageSize = constants.MaxPagingSize
	}
	offset := (page - 1) * pageSize

	err := query.
		Order(sortColumn + " " + string(sortOrder)).
		Offset(offset).
		Limit(pageSize).
		Find(&products).Error

	return products, total, err
}

// Update - 更新商品
func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", product.ProductID).
		Select("Title", "Description", "ImageURL", "Price", "OriginalPrice",
			"DiscountPercentage", "Stock", "Category", "IsApproved").
		Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete - 軟刪除商品 歷史訂單持有快照不受影響
func (s *ProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
