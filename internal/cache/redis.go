package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
)

const (
	keyPrefix  = "owm:forecast:"
	DefaultTTL = 10 * time.Minute
)

// Fetcher is the upstream the cache sits in front of.
type Fetcher interface {
	Fetch(ctx context.Context, params url.Values, mode openweathermap.Mode) (*openweathermap.Response, error)
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// ResponseCache is a read-through cache of successful provider replies.
// Failed fetches are never stored.
type ResponseCache struct {
	rdb  *redis.Client
	next Fetcher
	ttl  time.Duration
}

func New(rdb *redis.Client, next Fetcher, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{rdb: rdb, next: next, ttl: ttl}
}

// Fetch serves from Redis when possible. Redis errors degrade to a direct fetch.
func (c *ResponseCache) Fetch(ctx context.Context, params url.Values, mode openweathermap.Mode) (*openweathermap.Response, error) {
	key := Key(params, mode)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var resp openweathermap.Response
		if json.Unmarshal(data, &resp) == nil {
			log.Printf("cache hit: %s", key)
			return &resp, nil
		}
	case !errors.Is(err, redis.Nil):
		log.Printf("cache get %s: %v", key, err)
	}

	resp, err := c.next.Fetch(ctx, params, mode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			log.Printf("cache set %s: %v", key, err)
		}
	}
	return resp, nil
}

// Key identifies a request by mode and query, leaving the API key out.
func Key(params url.Values, mode openweathermap.Mode) string {
	q := make(url.Values, len(params))
	for k, v := range params {
		if k == "APPID" {
			continue
		}
		q[k] = v
	}
	return keyPrefix + string(mode) + ":" + q.Encode()
}
