package rbac

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "gatehouse:resource:"

// Cache memoises resource name to id lookups in redis. Resources are never
// deleted, so entries only expire by TTL. All methods degrade to a miss when
// redis is unavailable.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetResourceID returns the cached id for a resource name.
func (c *Cache) GetResourceID(ctx context.Context, name string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, cacheKeyPrefix+name).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetResourceID stores the id for a resource name.
func (c *Cache) SetResourceID(ctx context.Context, name string, id int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, cacheKeyPrefix+name, strconv.FormatInt(id, 10), c.ttl)
}
