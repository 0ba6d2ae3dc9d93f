package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-management-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

// LoginAttemptRepository shares failed login counters between instances through redis.
type LoginAttemptRepository struct {
	rdb *redis.Client
}

func NewLoginAttemptRepository(rdb *redis.Client) contract.LoginAttemptRepository {
	return &LoginAttemptRepository{rdb: rdb}
}

func (r *LoginAttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	k := keyPrefix + key
	// SET NX EX opens the window with its TTL; INCR keeps that TTL.
	pipe := r.rdb.TxPipeline()
	pipe.SetNX(ctx, k, 0, window)
	incr := pipe.Incr(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment login attempts: %w", err)
	}
	return int(incr.Val()), nil
}

func (r *LoginAttemptRepository) Get(ctx context.Context, key string) (int, error) {
	n, err := r.rdb.Get(ctx, keyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read login attempts: %w", err)
	}
	return n, nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, keyPrefix+key).Err()
}
