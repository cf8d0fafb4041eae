package throttle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts consecutive login failures per key.
type Limiter interface {
	Locked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Noop never locks; used when no redis is configured.
type Noop struct{}

func (Noop) Locked(context.Context, string) (bool, error) { return false, nil }
func (Noop) Fail(context.Context, string) error           { return nil }
func (Noop) Reset(context.Context, string) error          { return nil }

type Redis struct {
	R       *redis.Client
	Max     int
	Lockout time.Duration
}

func NewRedis(r *redis.Client, max int, lockout time.Duration) *Redis {
	return &Redis{R: r, Max: max, Lockout: lockout}
}

func keyFailures(key string) string { return "login:fail:" + strings.ToLower(key) }

func (l *Redis) Locked(ctx context.Context, key string) (bool, error) {
	if l.Max <= 0 {
		return false, nil
	}
	n, err := l.R.Get(ctx, keyFailures(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.Max, nil
}

// Fail bumps the counter and restarts the lockout window.
func (l *Redis) Fail(ctx context.Context, key string) error {
	pipe := l.R.TxPipeline()
	pipe.Incr(ctx, keyFailures(key))
	pipe.Expire(ctx, keyFailures(key), l.Lockout)
	_, err := pipe.Exec(ctx)
	return err
}

func (l *Redis) Reset(ctx context.Context, key string) error {
	return l.R.Del(ctx, keyFailures(key)).Err()
}

// Connect pings addr before handing the client out.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
