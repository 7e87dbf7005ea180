package repository

import (
	"context"

	"fleet/internal/domain"
)

// VehicleRepository defines read access to vehicles, used for live
// snapshot enrichment.
type VehicleRepository interface {
	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
}
