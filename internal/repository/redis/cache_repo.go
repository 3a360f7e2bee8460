package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/basket-backend/internal/cfg"
	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/basket-backend/pkg/clients"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	catalogKey     = "catalog:v1"
	catalogVersion = 1
)

// CacheRepo кэширует снимок каталога продуктов в Redis.
// Ранжирование и поиск работают по снимку, поэтому он хранится одним ключом с TTL.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCatalog возвращает снимок каталога или e.ErrCacheMiss.
// Повреждённый снимок удаляется и считается промахом.
func (c *CacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrCacheMiss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CatalogRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Dropping unreadable catalog snapshot: %v", e.Wrap(whereami.WhereAmI(), err))
		c.drop(ctx)
		return nil, e.ErrCacheMiss
	}
	if model.Version != catalogVersion {
		c.logger.Warnf("Dropping catalog snapshot of version %d", model.Version)
		c.drop(ctx)
		return nil, e.ErrCacheMiss
	}

	products, err := c.conv.ToArrEntity(model.Products)
	if err != nil {
		c.logger.Warnf("Dropping catalog snapshot with malformed price: %v", e.Wrap(whereami.WhereAmI(), err))
		c.drop(ctx)
		return nil, e.ErrCacheMiss
	}

	return products, nil
}

// SetCatalog сохраняет снимок каталога с TTL из конфигурации.
func (c *CacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(converter.CatalogRedisModel{
		Version:  catalogVersion,
		Products: c.conv.ToArrRedisModel(products),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, catalogKey, data, c.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) InvalidateCatalog(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, catalogKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) drop(ctx context.Context) {
	if err := c.client.Client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}
