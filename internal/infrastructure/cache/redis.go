package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Throttle admits one event per key per window. It backs the OTP request
// cooldown so a phone cannot be flooded with codes.
type Throttle struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
}

func NewThrottle(rdb *redis.Client, prefix string, window time.Duration) *Throttle {
	return &Throttle{rdb: rdb, prefix: prefix, window: window}
}

// Allow reports whether the key may proceed now. A zero window always allows.
func (t *Throttle) Allow(ctx context.Context, key string) (bool, error) {
	if t == nil || t.rdb == nil || t.window <= 0 {
		return true, nil
	}
	return t.rdb.SetNX(ctx, t.prefix+key, time.Now().UTC().Unix(), t.window).Result()
}

// Reset clears the key, e.g. after a failed delivery.
func (t *Throttle) Reset(ctx context.Context, key string) error {
	if t == nil || t.rdb == nil {
		return nil
	}
	return t.rdb.Del(ctx, t.prefix+key).Err()
}
