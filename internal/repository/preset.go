package repository

import (
	"context"

	"fleet/internal/domain"
)

// PresetRepository defines read access to preset locations and
// destinations. The administrative layer owns writes.
type PresetRepository interface {
	// GetLocation retrieves a preset location by ID.
	GetLocation(ctx context.Context, id string) (*domain.PresetLocation, error)

	// ListActiveLocations retrieves the active preset locations for an
	// organization in the store's native order.
	ListActiveLocations(ctx context.Context, organizationID string) ([]*domain.PresetLocation, error)

	// GetDestination retrieves a preset destination by ID.
	GetDestination(ctx context.Context, id string) (*domain.PresetDestination, error)
}
