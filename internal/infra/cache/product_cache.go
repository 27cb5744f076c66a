package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const notFoundSentinel = "notfound"

// CachedProductRepository 以cache-aside包住商品repo
// redis掛掉時一律降級走db 快取錯誤只記log不往外傳
type CachedProductRepository struct {
	realRepo db.IProductRepository
	redis    *redis.Client
	ttl      time.Duration
	logger   *zerolog.Logger
}

func NewCachedProductRepository(realRepo db.IProductRepository, rdb *redis.Client, logger *zerolog.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      5 * time.Minute,
		logger:   logger,
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *CachedProductRepository) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundSentinel {
			return nil, db.ErrNotFound
		}
		var product model.Product
		if err := json.Unmarshal(data, &product); err != nil {
			c.logger.Warn().Err(err).Uint("product_id", id).Msg("failed to unmarshal cached product, falling back to db")
			break
		}
		return &product, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Msg("redis error, falling back to db")
	}

	product, err := c.realRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// 短TTL的negative cache 擋重複查詢不存在的商品
			if setErr := c.redis.Set(ctx, key, notFoundSentinel, time.Minute).Err(); setErr != nil {
				c.logger.Warn().Err(setErr).Msg("failed to cache notfound sentinel")
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to marshal product for cache")
		return product, nil
	}
	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to cache product")
	}
	return product, nil
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id uint) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("product_id", id).Msg("failed to invalidate product cache")
	}
}

// Invalidate 給訂單流程用 下單/取消會在repo交易內改庫存 不經過這層
func (c *CachedProductRepository) Invalidate(ctx context.Context, ids ...uint) {
	for _, id := range ids {
		c.invalidate(ctx, id)
	}
}

func (c *CachedProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	return c.realRepo.CreateProduct(ctx, product)
}

func (c *CachedProductRepository) GetProductWithReviews(ctx context.Context, id uint) (*model.Product, error) {
	// 含評論的讀取不進快取 評論寫入頻繁且帶使用者資料
	return c.realRepo.GetProductWithReviews(ctx, id)
}

func (c *CachedProductRepository) GetProductsFiltered(ctx context.Context, filter db.ProductFilter) ([]model.Product, int64, error) {
	return c.realRepo.GetProductsFiltered(ctx, filter)
}

func (c *CachedProductRepository) UpdateProduct(ctx context.Context, product *model.Product) error {
	err := c.realRepo.UpdateProduct(ctx, product)
	c.invalidate(ctx, product.ProductID)
	return err
}

func (c *CachedProductRepository) DeleteProduct(ctx context.Context, id uint) error {
	err := c.realRepo.DeleteProduct(ctx, id)
	c.invalidate(ctx, id)
	return err
}
