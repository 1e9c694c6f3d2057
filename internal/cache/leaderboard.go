package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/questboard/questboard-api/internal/config"
)

const (
	generationKey = "questboard:leaderboard:generation"
	entryPrefix   = "questboard:leaderboard"
	opTimeout     = 2 * time.Second
)

// Leaderboard caches computed leaderboards keyed by a generation counter.
// Bumping the counter orphans every entry of the previous generation; TTL
// cleans them up.
type Leaderboard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
}

func NewLeaderboard(rdb *redis.Client, ttl time.Duration) *Leaderboard {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Leaderboard{
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *Leaderboard) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return c.rdb.Ping(ctx).Err()
}

func (c *Leaderboard) Generation(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("c.rdb.Get -> %w", err)
	}

	return gen, nil
}

func (c *Leaderboard) Get(ctx context.Context, generation int64, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := c.rdb.Get(ctx, entryKey(generation, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("c.rdb.Get -> %w", err)
	}

	return payload, true, nil
}

func (c *Leaderboard) Set(ctx context.Context, generation int64, key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Set(ctx, entryKey(generation, key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("c.rdb.Set -> %w", err)
	}

	return nil
}

func (c *Leaderboard) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("c.rdb.Incr -> %w", err)
	}

	return nil
}

func entryKey(generation int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", entryPrefix, generation, key)
}
