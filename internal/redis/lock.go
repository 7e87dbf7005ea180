package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireInvoiceLock attempts to acquire the invoice-generation lock for
// a trip, so concurrent administrative regeneration requests cannot
// produce duplicate invoices. Returns true if the lock was acquired.
func (s *LockStore) AcquireInvoiceLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:invoice:%s", tripID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseInvoiceLock releases the invoice-generation lock for a trip.
func (s *LockStore) ReleaseInvoiceLock(ctx context.Context, tripID string) error {
	key := fmt.Sprintf("lock:invoice:%s", tripID)

	return s.client.Del(ctx, key).Err()
}
