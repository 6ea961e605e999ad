package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefaultRedisKey holds the roster hash: HSET juara:classes {class} {json names}.
const DefaultRedisKey = "juara:classes"

// RedisDirectory serves the roster from a Redis hash shared by every game
// station. On a miss it loads from the fallback directory and fills the
// hash, with concurrent misses collapsed into one load.
type RedisDirectory struct {
	client   *redis.Client
	key      string
	fallback Directory
	ttl      time.Duration
	logger   *slog.Logger
	sf       singleflight.Group
}

// NewRedisDirectory creates a RedisDirectory. fallback may be nil, and
// ttl <= 0 keeps the cached roster until it is replaced.
func NewRedisDirectory(client *redis.Client, key string, fallback Directory, ttl time.Duration, logger *slog.Logger) *RedisDirectory {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisDirectory{client: client, key: key, fallback: fallback, ttl: ttl, logger: logger}
}

func (d *RedisDirectory) LoadClasses(ctx context.Context) (Classes, error) {
	if c, ok, err := d.cached(ctx); err != nil || ok {
		return c, err
	}

	v, err, _ := d.sf.Do(d.key, func() (any, error) {
		// Re-check in case another caller filled it.
		if c, ok, err := d.cached(ctx); err != nil || ok {
			return c, err
		}
		if d.fallback == nil {
			return Classes{}, nil
		}
		c, err := d.fallback.LoadClasses(ctx)
		if err != nil {
			return nil, err
		}
		if err := d.Store(ctx, c); err != nil {
			d.logger.Warn("cache roster failed", "key", d.key, "error", err)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Classes), nil
}

// Store replaces the cached roster.
func (d *RedisDirectory) Store(ctx context.Context, c Classes) error {
	fields := make(map[string]any, len(c))
	for class, names := range c {
		raw, err := json.Marshal(names)
		if err != nil {
			return fmt.Errorf("encode class %s: %w", class, err)
		}
		fields[class] = string(raw)
	}

	pipe := d.client.TxPipeline()
	pipe.Del(ctx, d.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, d.key, fields)
		if ttl := d.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, d.key, ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store roster: %w", err)
	}
	return nil
}

func (d *RedisDirectory) cached(ctx context.Context) (Classes, bool, error) {
	raw, err := d.client.HGetAll(ctx, d.key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("read roster: %w", err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	decoded := make(map[string][]string, len(raw))
	for class, v := range raw {
		var names []string
		if err := json.Unmarshal([]byte(v), &names); err != nil {
			return nil, false, fmt.Errorf("decode class %s: %w", class, err)
		}
		decoded[class] = names
	}
	return Normalize(decoded), true, nil
}

// ttlWithJitter spreads expiry so stations don't all reload together.
func (d *RedisDirectory) ttlWithJitter() time.Duration {
	if d.ttl <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(d.ttl/10) + 1))
	return d.ttl + jitter
}
