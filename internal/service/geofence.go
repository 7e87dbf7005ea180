package service

import (
	"context"

	"fleet/internal/domain"
	"fleet/internal/geo"
	"fleet/internal/repository"
)

// GeofenceService decides whether a coordinate falls inside any of an
// organization's active preset locations.
type GeofenceService struct {
	presetRepo repository.PresetRepository
}

// NewGeofenceService creates a new GeofenceService.
func NewGeofenceService(presetRepo repository.PresetRepository) *GeofenceService {
	return &GeofenceService{presetRepo: presetRepo}
}

// Detect returns the first active preset whose radius contains the
// coordinate, in the store's native order. Overlapping geofences are
// resolved by evaluation order, not proximity. A nil result with a nil
// error means no preset matched; that is an expected outcome, not an
// error.
func (s *GeofenceService) Detect(ctx context.Context, organizationID string, lat, lng float64) (*domain.PresetLocation, error) {
	if organizationID == "" {
		return nil, ErrInvalidOrganizationID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}

	presets, err := s.presetRepo.ListActiveLocations(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	for _, preset := range presets {
		dist := geo.DistanceMeters(lat, lng, preset.Latitude, preset.Longitude)
		if dist <= preset.RadiusMeters {
			return preset, nil
		}
	}

	return nil, nil
}
