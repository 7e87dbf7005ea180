package repository

import (
	"context"

	"fleet/internal/domain"
)

// TariffRepository defines read access to fixed tariffs and the
// distance-rate setting.
type TariffRepository interface {
	// GetFixed retrieves the fixed tariff for a preset route within an
	// organization. Returns ErrNotFound when no tariff is configured.
	GetFixed(ctx context.Context, organizationID, sourceID, destinationID string) (*domain.FixedTariff, error)

	// GetRatePerKm retrieves the configured distance rate. Returns
	// ErrNotFound when no rate has been persisted.
	GetRatePerKm(ctx context.Context) (float64, error)

	// SetRatePerKm persists the distance rate, creating the settings row
	// if it does not exist.
	SetRatePerKm(ctx context.Context, rate float64) error
}
