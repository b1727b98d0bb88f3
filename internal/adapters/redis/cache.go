// Package redis caches analysis results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

const keyPrefix = "clausegrade:analysis:"

type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ ports.ResultCache = (*Cache)(nil)

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	c := New(goredis.NewClient(opts), ttl)
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return c, nil
}

func New(client *goredis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string) (domain.AnalysisResult, bool, error) {
	b, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.AnalysisResult{}, false, nil
	}
	if err != nil {
		return domain.AnalysisResult{}, false, err
	}
	var r domain.AnalysisResult
	if err := json.Unmarshal(b, &r); err != nil {
		// Unreadable entries are treated as misses and overwritten on the next Set.
		return domain.AnalysisResult{}, false, nil
	}
	return r, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, r domain.AnalysisResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, b, c.ttl).Err()
}

func (c *Cache) Close() error { return c.client.Close() }
