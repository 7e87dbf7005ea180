package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches entity lookups used to enrich live snapshots, so
// that listing live vehicles does not hammer Postgres for names that
// rarely change.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	VehicleCacheTTL = 60 * time.Second  // registration numbers change rarely
	PresetCacheTTL  = 300 * time.Second // preset names are admin-managed
)

// Key prefixes
const (
	vehicleCachePrefix = "cache:vehicle:"
	presetCachePrefix  = "cache:preset:"
)

// CachedVehicle holds the vehicle fields needed for display enrichment.
type CachedVehicle struct {
	ID                 string `json:"id"`
	OrganizationID     string `json:"organization_id"`
	RegistrationNumber string `json:"registration_number"`
}

// CachedPreset holds the preset fields needed for display enrichment.
type CachedPreset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetVehicle retrieves a vehicle from cache. Returns nil on a miss.
func (s *CacheStore) GetVehicle(ctx context.Context, vehicleID string) (*CachedVehicle, error) {
	data, err := s.client.Get(ctx, vehicleCachePrefix+vehicleID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var vehicle CachedVehicle
	if err := json.Unmarshal(data, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// SetVehicle stores a vehicle in cache.
func (s *CacheStore) SetVehicle(ctx context.Context, vehicle *CachedVehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, vehicleCachePrefix+vehicle.ID, data, VehicleCacheTTL).Err()
}

// GetPreset retrieves a preset name from cache. Returns nil on a miss.
func (s *CacheStore) GetPreset(ctx context.Context, presetID string) (*CachedPreset, error) {
	data, err := s.client.Get(ctx, presetCachePrefix+presetID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var preset CachedPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

// SetPreset stores a preset name in cache.
func (s *CacheStore) SetPreset(ctx context.Context, preset *CachedPreset) error {
	data, err := json.Marshal(preset)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, presetCachePrefix+preset.ID, data, PresetCacheTTL).Err()
}
