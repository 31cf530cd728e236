package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker implements the submission guard with SetNX and a TTL so
// a crashed submission cannot wedge a session forever.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// MemoryLocker is the in-process guard used when redis is not
// configured. TTL expiry is honored on Acquire.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time)}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}
