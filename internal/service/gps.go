package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/metrics"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

// GPSService handles vehicle position reports and live tracking reads.
// Every report refreshes the live cache entry; only reports attached to
// a trip leave a durable track point behind.
type GPSService struct {
	liveStore   redis.LiveStoreInterface
	cacheStore  *redis.CacheStore
	pointRepo   repository.TrackPointRepository
	tripRepo    repository.TripRepository
	presetRepo  repository.PresetRepository
	vehicleRepo repository.VehicleRepository
	collector   *metrics.Collector
}

// NewGPSService creates a new GPSService. The cache store and collector
// may be nil.
func NewGPSService(
	liveStore redis.LiveStoreInterface,
	cacheStore *redis.CacheStore,
	pointRepo repository.TrackPointRepository,
	tripRepo repository.TripRepository,
	presetRepo repository.PresetRepository,
	vehicleRepo repository.VehicleRepository,
	collector *metrics.Collector,
) *GPSService {
	return &GPSService{
		liveStore:   liveStore,
		cacheStore:  cacheStore,
		pointRepo:   pointRepo,
		tripRepo:    tripRepo,
		presetRepo:  presetRepo,
		vehicleRepo: vehicleRepo,
		collector:   collector,
	}
}

// ReportPositionRequest contains the parameters for a position report.
type ReportPositionRequest struct {
	VehicleID string
	Lat       float64
	Lng       float64
	TripID    string // optional: attaches a durable track point to a trip
}

// ReportPosition refreshes the vehicle's live cache entry, then appends
// a durable track point when the report carries a trip id. Every valid
// report updates the live cache; the durable append is independent, so
// a Postgres failure never leaves the cache stale. Last write wins on
// the live entry regardless of arrival order.
func (s *GPSService) ReportPosition(ctx context.Context, req ReportPositionRequest) error {
	if req.VehicleID == "" {
		return ErrInvalidVehicleID
	}
	if !isValidLatitude(req.Lat) || !isValidLongitude(req.Lng) {
		return ErrInvalidLocation
	}

	now := time.Now()

	pos := &redis.LivePosition{
		VehicleID:   req.VehicleID,
		Latitude:    req.Lat,
		Longitude:   req.Lng,
		TripID:      req.TripID,
		LastUpdated: now,
	}
	if err := s.liveStore.Update(ctx, pos); err != nil {
		return err
	}

	if s.collector != nil {
		s.collector.PositionReports.Inc()
	}

	if req.TripID != "" {
		point := &domain.TrackPoint{
			ID:         uuid.New().String(),
			VehicleID:  req.VehicleID,
			TripID:     req.TripID,
			Latitude:   req.Lat,
			Longitude:  req.Lng,
			RecordedAt: now,
		}
		if err := s.pointRepo.Append(ctx, point); err != nil {
			return err
		}
		if s.collector != nil {
			s.collector.TrackPoints.Inc()
		}
	}

	return nil
}

// LiveSnapshot is a live position enriched for display. Enrichment is
// best effort: when a lookup misses, the raw identifiers remain.
type LiveSnapshot struct {
	VehicleID       string
	Registration    string
	Lat             float64
	Lng             float64
	TripID          string
	PickupName      string
	DestinationName string
	LastUpdated     time.Time
}

// ListLive returns all currently fresh vehicle positions, optionally
// filtered by organization. Entries older than the live TTL have
// already expired out of the store and never appear.
func (s *GPSService) ListLive(ctx context.Context, organizationID string) ([]*LiveSnapshot, error) {
	positions, err := s.liveStore.ListLive(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*LiveSnapshot, 0, len(positions))
	for _, pos := range positions {
		snapshot := &LiveSnapshot{
			VehicleID:   pos.VehicleID,
			Lat:         pos.Latitude,
			Lng:         pos.Longitude,
			TripID:      pos.TripID,
			LastUpdated: pos.LastUpdated,
		}

		vehicle := s.lookupVehicle(ctx, pos.VehicleID)
		if vehicle != nil {
			if organizationID != "" && vehicle.OrganizationID != organizationID {
				continue
			}
			snapshot.Registration = vehicle.RegistrationNumber
		}

		if pos.TripID != "" {
			s.enrichRoute(ctx, snapshot, pos.TripID)
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// GetLive returns the enriched live position of a single vehicle. A
// nil result with a nil error means the vehicle is not currently
// tracking: its entry is absent or has aged out of the freshness
// window.
func (s *GPSService) GetLive(ctx context.Context, vehicleID string) (*LiveSnapshot, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	pos, err := s.liveStore.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, nil
	}

	snapshot := &LiveSnapshot{
		VehicleID:   pos.VehicleID,
		Lat:         pos.Latitude,
		Lng:         pos.Longitude,
		TripID:      pos.TripID,
		LastUpdated: pos.LastUpdated,
	}

	if vehicle := s.lookupVehicle(ctx, pos.VehicleID); vehicle != nil {
		snapshot.Registration = vehicle.RegistrationNumber
	}
	if pos.TripID != "" {
		s.enrichRoute(ctx, snapshot, pos.TripID)
	}

	return snapshot, nil
}

// lookupVehicle resolves a vehicle through the enrichment cache,
// falling back to the repository. Returns nil when unresolvable.
func (s *GPSService) lookupVehicle(ctx context.Context, vehicleID string) *redis.CachedVehicle {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetVehicle(ctx, vehicleID)
		if err == nil && cached != nil {
			return cached
		}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil
	}

	cached := &redis.CachedVehicle{
		ID:                 vehicle.ID,
		OrganizationID:     vehicle.OrganizationID,
		RegistrationNumber: vehicle.RegistrationNumber,
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.SetVehicle(ctx, cached)
	}

	return cached
}

// enrichRoute fills in the trip's pickup and destination names.
// Failures leave the snapshot with raw identifiers only.
func (s *GPSService) enrichRoute(ctx context.Context, snapshot *LiveSnapshot, tripID string) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return
	}

	if trip.SourcePresetID != "" {
		snapshot.PickupName = s.lookupPresetName(ctx, trip.SourcePresetID, false)
	}
	if trip.DestinationPresetID != "" {
		snapshot.DestinationName = s.lookupPresetName(ctx, trip.DestinationPresetID, true)
	}
}

func (s *GPSService) lookupPresetName(ctx context.Context, presetID string, destination bool) string {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetPreset(ctx, presetID)
		if err == nil && cached != nil {
			return cached.Name
		}
	}

	var name string
	if destination {
		dest, err := s.presetRepo.GetDestination(ctx, presetID)
		if err != nil {
			return ""
		}
		name = dest.Name
	} else {
		loc, err := s.presetRepo.GetLocation(ctx, presetID)
		if err != nil {
			return ""
		}
		name = loc.Name
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetPreset(ctx, &redis.CachedPreset{ID: presetID, Name: name})
	}

	return name
}
