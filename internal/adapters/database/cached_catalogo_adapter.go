package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/providers"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
)

// CachedCatalogoAdapter wraps a CatalogoRepository with a read-through cache.
// Cache errors are logged and never surface to callers.
type CachedCatalogoAdapter struct {
	adapter repositories.CatalogoRepository
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewCachedCatalogoAdapter creates a new cached catalog adapter. ttlSeconds
// applies to every catalog key.
func NewCachedCatalogoAdapter(adapter repositories.CatalogoRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedCatalogoAdapter {
	return &CachedCatalogoAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
		logger:  observability.Component("cache"),
	}
}

// Cache key generators
const catalogoKeyPrefix = "catalogo:"

func catalogoCacheKey(name string) string {
	return catalogoKeyPrefix + name
}

func pisosCacheKey(codigoEdificio int64) string {
	return fmt.Sprintf("%spisos:%d", catalogoKeyPrefix, codigoEdificio)
}

func readThrough[T any](ctx context.Context, c *CachedCatalogoAdapter, key string, load func(context.Context) (T, error)) (T, error) {
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			observability.RecordCacheHit(ctx, c.metrics, key)
			return value, nil
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached catalog")
	}
	observability.RecordCacheMiss(ctx, c.metrics, key)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache catalog")
		}
	}
	return value, nil
}

// Consultorios retrieves consulting rooms with caching
func (c *CachedCatalogoAdapter) Consultorios(ctx context.Context) ([]*entities.Consultorio, error) {
	return readThrough(ctx, c, catalogoCacheKey("consultorios"), c.adapter.Consultorios)
}

// Dias retrieves weekdays with caching
func (c *CachedCatalogoAdapter) Dias(ctx context.Context) ([]*entities.Dia, error) {
	return readThrough(ctx, c, catalogoCacheKey("dias"), c.adapter.Dias)
}

// Edificios retrieves buildings with caching
func (c *CachedCatalogoAdapter) Edificios(ctx context.Context) ([]*entities.Edificio, error) {
	return readThrough(ctx, c, catalogoCacheKey("edificios"), c.adapter.Edificios)
}

// PisosByEdificio retrieves the floors of a building with caching
func (c *CachedCatalogoAdapter) PisosByEdificio(ctx context.Context, codigoEdificio int64) ([]*entities.Piso, error) {
	return readThrough(ctx, c, pisosCacheKey(codigoEdificio), func(ctx context.Context) ([]*entities.Piso, error) {
		return c.adapter.PisosByEdificio(ctx, codigoEdificio)
	})
}

// Invalidate drops every cached catalog entry.
func (c *CachedCatalogoAdapter) Invalidate(ctx context.Context) error {
	return c.cache.DeletePattern(ctx, catalogoKeyPrefix+"*")
}
