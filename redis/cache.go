// Package redis implements a shared document text cache on Redis, for
// deployments where several servers fetch from the same catalog.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/chatad"
	"github.com/redis/go-redis/v9"
)

// Ensure Cache implements chatad.ContentCache at compile time.
var _ chatad.ContentCache = (*Cache)(nil)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "chatad:content:"

// scanCount is the SCAN batch size used by Clear.
const scanCount = 500

// Cache stores extracted document text in Redis. Entries never expire.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a cache using client. An empty prefix uses DefaultPrefix.
func NewCache(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Open connects to the Redis server at rawURL (redis://host:port/db) and
// verifies the connection.
func Open(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, chatad.Errorf(chatad.EINVALID, "invalid redis URL: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "connecting to redis: %v", err)
	}
	return client, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	text, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return text, true, nil
}

func (c *Cache) Put(ctx context.Context, key, text string) error {
	if err := c.client.Set(ctx, c.prefix+key, text, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (c *Cache) Clear(ctx context.Context) (int, error) {
	var n int
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanCount).Result()
		if err != nil {
			return n, fmt.Errorf("failed to scan cache: %w", err)
		}
		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return n, fmt.Errorf("failed to clear cache: %w", err)
			}
			n += int(deleted)
		}
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}
