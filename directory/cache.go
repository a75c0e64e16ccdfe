package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"courtflow/judge"

	"github.com/redis/go-redis/v9"
)

// Lookup is the slice of the judge directory the cache fronts.
type Lookup interface {
	GetByID(ctx context.Context, id string) (judge.Profile, error)
	ListActive(ctx context.Context) ([]judge.Profile, error)
}

// Cache is a read-through Redis cache over the judge directory. Entries
// expire after the configured TTL; the priming job refreshes them on the
// same cadence so lookups rarely miss.
type Cache struct {
	rdb   *redis.Client
	inner Lookup
	ttl   time.Duration
}

func NewCache(rdb *redis.Client, inner Lookup, expiry time.Duration) *Cache {
	return &Cache{rdb: rdb, inner: inner, ttl: expiry}
}

func cacheKey(id string) string {
	return "judge:" + id
}

// GetByID serves the profile from Redis when present, falling back to the
// underlying directory and repopulating the entry on a miss. Cache errors
// degrade to the underlying directory rather than failing the lookup.
func (c *Cache) GetByID(ctx context.Context, id string) (judge.Profile, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Result()
	if err == nil {
		var p judge.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
		log.Printf("directory: corrupt cache entry for %s, refreshing", id)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("directory: cache read for %s: %v", id, err)
	}

	p, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return judge.Profile{}, err
	}
	c.store(ctx, p)
	return p, nil
}

// ListActive always reads through; the full listing is only needed by the
// priming job and escalation paths where staleness matters.
func (c *Cache) ListActive(ctx context.Context) ([]judge.Profile, error) {
	return c.inner.ListActive(ctx)
}

// Prime warms the cache with every active judge. It is scheduled on the
// cache-expiry cadence so a configuration change to the TTL shifts the
// priming schedule on the next cycle.
func (c *Cache) Prime(ctx context.Context) error {
	profiles, err := c.inner.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("directory: prime: %w", err)
	}

	for _, p := range profiles {
		c.store(ctx, p)
	}
	log.Printf("directory: primed %d judge profiles", len(profiles))
	return nil
}

func (c *Cache) store(ctx context.Context, p judge.Profile) {
	payload, err := json.Marshal(p)
	if err != nil {
		log.Printf("directory: marshal profile %s: %v", p.ID, err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(p.ID), payload, c.ttl).Err(); err != nil {
		log.Printf("directory: cache write for %s: %v", p.ID, err)
	}
}
