package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const roomVersionKey = "rooms:version"

// NewRedis connects to redisURL. It returns a nil client when the URL is
// empty so the application can run without redis.
func NewRedis(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		log.Warn().Msg("REDIS_URL not configured, room cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info().Msg("connected to redis")
	return client, nil
}

// RoomCache is a read-through cache for room listings. Entries are keyed by a
// version number; Invalidate bumps the version so every older entry is
// ignored and left to expire. A nil RoomCache or nil client is a no-op cache.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomCache(client *redis.Client, ttl time.Duration) *RoomCache {
	return &RoomCache{client: client, ttl: ttl}
}

func (c *RoomCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *RoomCache) key(ctx context.Context, query string) (string, error) {
	v, err := c.client.Get(ctx, roomVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("rooms:v%d:%s", v, query), nil
}

// Get decodes the cached entry for query into dest and reports whether there was one.
func (c *RoomCache) Get(ctx context.Context, query string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}

	key, err := c.key(ctx, query)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RoomCache) Set(ctx context.Context, query string, value any) error {
	if !c.enabled() {
		return nil
	}

	key, err := c.key(ctx, query)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), c.ttl).Err()
}

// Invalidate makes every cached listing stale.
func (c *RoomCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, roomVersionKey).Err()
}
