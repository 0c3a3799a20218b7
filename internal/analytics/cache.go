package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/redis"
)

const defaultCacheTTL = 15 * time.Minute

// reportCache stores computed reports as JSON under a per-user version. Bumping
// the version orphans every report cached before it; the TTL reaps them.
type reportCache struct {
	store   redis.CacheStore
	ttl     time.Duration
	metrics *metrics.IngestMetrics
	logg    *logger.Logger
}

func newReportCache(store redis.CacheStore, ttl time.Duration, m *metrics.IngestMetrics, logg *logger.Logger) *reportCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &reportCache{store: store, ttl: ttl, metrics: m, logg: logg}
}

func (c *reportCache) versionKey(userID uuid.UUID) string {
	return c.store.CacheKey("analytics", userID.String(), "version")
}

func (c *reportCache) version(ctx context.Context, userID uuid.UUID) (string, error) {
	v, err := c.store.Get(ctx, c.versionKey(userID))
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

// cached returns the report from the cache, or runs compute and caches its
// result. Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c *reportCache, userID uuid.UUID, section string, compute func() (*T, error)) (*T, error) {
	if c.store == nil {
		return computeReport(compute)
	}

	version, err := c.version(ctx, userID)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "section", section), "analytics cache version lookup failed")
		return computeReport(compute)
	}
	key := c.store.CacheKey("analytics", userID.String(), "v"+version, section)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var out T
		if json.Unmarshal([]byte(raw), &out) == nil {
			c.metrics.CacheHit()
			return &out, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "analytics cache read failed")
	}
	c.metrics.CacheMiss()

	out, err := computeReport(compute)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode analytics report")
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "analytics cache write failed")
	}
	return out, nil
}

func computeReport[T any](compute func() (*T, error)) (*T, error) {
	out, err := compute()
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load analytics data")
	}
	return out, nil
}

func (c *reportCache) invalidate(ctx context.Context, userID uuid.UUID) error {
	if c.store == nil {
		return nil
	}
	if _, err := c.store.Incr(ctx, c.versionKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate analytics cache")
	}
	return nil
}
