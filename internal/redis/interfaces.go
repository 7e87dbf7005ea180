package redis

import (
	"context"
	"time"
)

// LiveStoreInterface defines the interface for live vehicle position
// operations. The contract is key-per-vehicle with a 300 second
// freshness window; any TTL-capable keyed store can satisfy it.
type LiveStoreInterface interface {
	Update(ctx context.Context, pos *LivePosition) error
	Get(ctx context.Context, vehicleID string) (*LivePosition, error)
	ListLive(ctx context.Context) ([]*LivePosition, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireInvoiceLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseInvoiceLock(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LiveStoreInterface = (*LiveStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
