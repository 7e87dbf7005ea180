package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	liveKeyPrefix = "vehicle:live:"

	// LiveTTL is the freshness window for a live position. An entry not
	// refreshed within this window expires and the vehicle is reported
	// as not currently tracking.
	LiveTTL = 300 * time.Second
)

// LivePosition is the cache-resident snapshot of a vehicle's most
// recent reported position. At most one exists per vehicle; the durable
// track point stream, not this snapshot, is authoritative for billing.
type LivePosition struct {
	VehicleID   string    `json:"vehicle_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	TripID      string    `json:"trip_id,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// LiveStore holds live vehicle positions in Redis with per-key TTL.
// Expiry is enforced by Redis itself; no sweeper runs here.
type LiveStore struct {
	client *redis.Client
}

// NewLiveStore creates a new LiveStore.
func NewLiveStore(client *redis.Client) *LiveStore {
	return &LiveStore{client: client}
}

// Update overwrites the stored snapshot for the vehicle and resets its
// freshness window. Last write wins; no reconciliation by timestamp.
func (s *LiveStore) Update(ctx context.Context, pos *LivePosition) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, liveKeyPrefix+pos.VehicleID, data, LiveTTL).Err()
}

// Get retrieves the live position for a single vehicle. Returns nil
// when the entry is absent or expired.
func (s *LiveStore) Get(ctx context.Context, vehicleID string) (*LivePosition, error) {
	data, err := s.client.Get(ctx, liveKeyPrefix+vehicleID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pos LivePosition
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

// ListLive returns every non-expired snapshot across all vehicles.
func (s *LiveStore) ListLive(ctx context.Context) ([]*LivePosition, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, liveKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	positions := make([]*LivePosition, 0, len(values))
	for _, v := range values {
		// A key can expire between SCAN and MGET.
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var pos LivePosition
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}

	return positions, nil
}
