package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds weight limiter tuning parameters.
type Config struct {
	Enabled         bool
	Prefix          string
	WeightPerMinute int
}

// Limiter meters REST request weight against a per-minute budget using
// Redis counters, so all processes sharing the Redis share the budget.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a weight [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "gtw"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Reserve charges weight against the current minute window. Returns
// ErrBudgetExhausted when the window budget is exceeded; the charge still
// counts, so a caller retrying immediately stays limited.
func (l *Limiter) Reserve(ctx context.Context, weight int) error {
	if l == nil || !l.config.Enabled || weight <= 0 {
		return nil
	}

	key := l.windowKey(time.Now())

	count, err := l.redis.IncrBy(ctx, key, int64(weight)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if count == int64(weight) {
		// First charge in this window; expire well past the window end so
		// clock skew between processes cannot orphan the key.
		if err := l.redis.Expire(ctx, key, 2*time.Minute).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if count > int64(l.config.WeightPerMinute) {
		return ErrBudgetExhausted
	}

	return nil
}

// Remaining reports the unspent weight in the current minute window.
func (l *Limiter) Remaining(ctx context.Context, now time.Time) (int, error) {
	if l == nil || !l.config.Enabled {
		return 0, nil
	}

	spent, err := l.redis.Get(ctx, l.windowKey(now)).Int64()
	if err == redis.Nil {
		return l.config.WeightPerMinute, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	remaining := l.config.WeightPerMinute - int(spent)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *Limiter) windowKey(now time.Time) string {
	return l.config.Prefix + ":w:" + strconv.FormatInt(now.Unix()/60, 10)
}
