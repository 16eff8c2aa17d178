package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"freight-desk/internal/core/cache"
	"freight-desk/internal/core/logger"
	"freight-desk/internal/features/tariffs/domain"
	"freight-desk/internal/features/tariffs/ports"

	"go.uber.org/zap"
)

// CachedZoneRuleRepository is a read-through cache in front of a
// ZoneRuleRepository. Zone rules change rarely, so a short TTL keeps the
// pricing hot path off the database without a separate invalidation channel.
type CachedZoneRuleRepository struct {
	inner ports.ZoneRuleRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedZoneRuleRepository wraps a zone rule repository with a cache.
func NewCachedZoneRuleRepository(inner ports.ZoneRuleRepository, c cache.Cache, ttl time.Duration) *CachedZoneRuleRepository {
	return &CachedZoneRuleRepository{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

// FindByPartnerAndPrefixes serves from the cache when possible and falls back
// to the inner repository. Cache failures degrade to a direct lookup.
func (r *CachedZoneRuleRepository) FindByPartnerAndPrefixes(ctx context.Context, partnerID string, prefixes ...string) ([]domain.ZoneRule, error) {
	key := zoneCacheKey(partnerID, prefixes)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var rules []domain.ZoneRule
		if err := json.Unmarshal(data, &rules); err == nil {
			return rules, nil
		}
		logger.Get().Warn("Dropping unreadable zone rule cache entry", zap.String("key", key))
		r.cache.Delete(ctx, key)
	}

	rules, err := r.inner.FindByPartnerAndPrefixes(ctx, partnerID, prefixes...)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rules); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Get().Warn("Failed to cache zone rules", zap.String("key", key), zap.Error(err))
		}
	}

	return rules, nil
}

// Save writes through to the inner repository. Cached lookups keyed by full
// prefix combinations cannot be enumerated from a single rule, so stale
// entries simply age out with the TTL.
func (r *CachedZoneRuleRepository) Save(ctx context.Context, rule domain.ZoneRule) error {
	return r.inner.Save(ctx, rule)
}

// zoneCacheKey builds the cache key for a (partner, prefixes) lookup.
func zoneCacheKey(partnerID string, prefixes []string) string {
	return fmt.Sprintf("zone_rules:%s:%s", partnerID, strings.Join(prefixes, ","))
}
