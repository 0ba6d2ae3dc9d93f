package memory

import (
	"context"
	"time"

	"asset-management-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// LoginAttemptRepository keeps failed login counters in process memory.
// Counters are lost on restart and not shared between instances.
type LoginAttemptRepository struct {
	cache *cache.Cache
}

func NewLoginAttemptRepository(window time.Duration) contract.LoginAttemptRepository {
	return &LoginAttemptRepository{
		cache: cache.New(window, 10*time.Minute),
	}
}

func (r *LoginAttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	// First failure opens the window; later ones keep its expiry.
	if err := r.cache.Add(key, 1, window); err == nil {
		return 1, nil
	}
	n, err := r.cache.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		r.cache.Set(key, 1, window)
		return 1, nil
	}
	return n, nil
}

func (r *LoginAttemptRepository) Get(ctx context.Context, key string) (int, error) {
	if x, found := r.cache.Get(key); found {
		return x.(int), nil
	}
	return 0, nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
