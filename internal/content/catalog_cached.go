package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "answerwire:content:"

// CachedCatalog decorates a Catalog with a Redis read-through cache.
//
// Cache failures degrade to the underlying catalog; a Redis outage slows
// lookups down but never fails them.
type CachedCatalog struct {
	inner  Catalog
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(inner Catalog, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalog{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedCatalog) FetchByRefs(ctx context.Context, refIDs []string) ([]Template, error) {
	if len(refIDs) == 0 {
		return nil, nil
	}

	cached, missing := c.readCache(ctx, refIDs)
	if len(missing) == 0 {
		return orderByRefs(refIDs, cached), nil
	}

	fetched, err := c.inner.FetchByRefs(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, fetched)

	for _, t := range fetched {
		cached[t.RefID] = t
	}
	return orderByRefs(refIDs, cached), nil
}

func (c *CachedCatalog) CountActive(ctx context.Context, refIDs []string) (int, error) {
	templates, err := c.FetchByRefs(ctx, refIDs)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range templates {
		if t.Active {
			count++
		}
	}
	return count, nil
}

func (c *CachedCatalog) readCache(ctx context.Context, refIDs []string) (map[string]Template, []string) {
	hits := make(map[string]Template, len(refIDs))

	keys := make([]string, len(refIDs))
	for i, ref := range refIDs {
		keys[i] = cacheKeyPrefix + ref
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		if c.logger != nil {
			c.logger.Warn("content cache read failed", "error", err)
		}
		return hits, refIDs
	}

	var missing []string
	for i, raw := range values {
		s, ok := raw.(string)
		if !ok {
			missing = append(missing, refIDs[i])
			continue
		}
		var t Template
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			missing = append(missing, refIDs[i])
			continue
		}
		hits[t.RefID] = t
	}
	return hits, missing
}

func (c *CachedCatalog) writeCache(ctx context.Context, templates []Template) {
	if len(templates) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, t := range templates {
		raw, err := json.Marshal(t)
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKeyPrefix+t.RefID, raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && c.logger != nil {
		c.logger.Warn("content cache write failed", "error", err)
	}
}

func orderByRefs(refIDs []string, byRef map[string]Template) []Template {
	out := make([]Template, 0, len(byRef))
	for _, ref := range refIDs {
		if t, ok := byRef[ref]; ok {
			out = append(out, t)
		}
	}
	return out
}
