// internal/intake/check-submission-rate/limiter.go
package checksubmissionrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tribe-intake/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-submission-rate"
)

// Decision is the outcome of one rate check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Duration
	RetryAfter time.Duration
}

// Limiter counts submissions per client in fixed windows. A client that
// exceeds the limit is blocked for Config.Block.
type Limiter struct {
	rdb    redis.Cmdable
	config *Config
	logger logger.Logger
}

func NewLimiter(config *Config, rdb redis.Cmdable, log logger.Logger) *Limiter {
	return &Limiter{
		rdb:    rdb,
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (l *Limiter) counterKey(clientID string) string {
	return l.config.KeyPrefix + ":" + clientID
}

func (l *Limiter) blockKey(clientID string) string {
	return l.counterKey(clientID) + ":blocked"
}

// Allow records one attempt for clientID. Any store error is returned
// as is; callers decide whether to fail open.
func (l *Limiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	key := l.counterKey(clientID)
	blockKey := l.blockKey(clientID)
	d := Decision{Limit: l.config.Limit}

	blocked, err := l.rdb.Get(ctx, blockKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return d, fmt.Errorf("read block key: %w", err)
	}
	if blocked == "1" {
		ttl, err := l.rdb.TTL(ctx, blockKey).Result()
		if err != nil {
			return d, fmt.Errorf("read block ttl: %w", err)
		}
		d.RetryAfter = positiveOr(ttl, l.config.Block)
		return d, nil
	}

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return d, fmt.Errorf("increment counter: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return d, fmt.Errorf("set window: %w", err)
		}
	}

	if count > int64(l.config.Limit) {
		if err := l.rdb.Set(ctx, blockKey, "1", l.config.Block).Err(); err != nil {
			return d, fmt.Errorf("set block key: %w", err)
		}
		l.logger.Warn("client blocked", map[string]interface{}{
			"clientId": clientID,
			"count":    count,
		})
		d.RetryAfter = l.config.Block
		return d, nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil {
		return d, fmt.Errorf("read window ttl: %w", err)
	}
	if ttl < 0 {
		// counter lost its expiry; restart the window
		if err := l.rdb.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return d, fmt.Errorf("set window: %w", err)
		}
		ttl = l.config.Window
	}

	d.Allowed = true
	d.Remaining = l.config.Limit - int(count)
	d.Reset = ttl
	return d, nil
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
