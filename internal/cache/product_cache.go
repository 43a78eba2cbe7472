package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

const (
	allProductsKey  = "products:all"
	notFoundMarker  = "notfound"
	notFoundTTL     = time.Minute
	defaultCacheTTL = 5 * time.Minute
)

func productKey(id uuid.UUID) string {
	return "product:" + id.String()
}

type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client, ttl time.Duration) *CachedProductRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      ttl,
	}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrProductNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			zap.L().Warn("failed to unmarshal cached product, continuing with db", zap.String("key", key), zap.Error(err))
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		zap.L().Warn("redis error, continuing with db", zap.String("key", key), zap.Error(err))
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				zap.L().Warn("failed to cache notfound", zap.String("key", key), zap.Error(setErr))
			}
		}
		return nil, err
	}

	c.store(ctx, key, product)
	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	data, err := c.redis.Get(ctx, allProductsKey).Bytes()
	switch {
	case err == nil:
		var products []models.Product
		if err := json.Unmarshal(data, &products); err != nil {
			zap.L().Warn("failed to unmarshal cached product list, continuing with db", zap.Error(err))
			break
		}
		if products != nil {
			return products, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		zap.L().Warn("redis error, continuing with db", zap.String("key", allProductsKey), zap.Error(err))
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, allProductsKey, products)
	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}

	// a notfound marker may exist for an id a client guessed earlier
	c.Invalidate(ctx, product.ID)
	return nil
}

// Invalidate drops the cached product and the cached list.
func (c *CachedProductRepository) Invalidate(ctx context.Context, id uuid.UUID) {
	keys := []string{allProductsKey}
	if id != uuid.Nil {
		keys = append(keys, productKey(id))
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("failed to delete product cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *CachedProductRepository) store(ctx context.Context, key string, v any) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("failed to marshal product cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		zap.L().Warn("failed to cache product", zap.String("key", key), zap.Error(err))
	}
}
