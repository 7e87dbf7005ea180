package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TariffRepository is a PostgreSQL implementation of repository.TariffRepository.
type TariffRepository struct {
	q Querier
}

// NewTariffRepository creates a new PostgreSQL tariff repository.
func NewTariffRepository(db *sql.DB) *TariffRepository {
	return &TariffRepository{q: db}
}

// GetFixed retrieves the fixed tariff for a preset route within an organization.
func (r *TariffRepository) GetFixed(ctx context.Context, organizationID, sourceID, destinationID string) (*domain.FixedTariff, error) {
	query := `
		SELECT id, organization_id, source_id, destination_id, amount
		FROM fixed_tariffs
		WHERE organization_id = $1 AND source_id = $2 AND destination_id = $3
	`

	var tariff domain.FixedTariff
	err := r.q.QueryRowContext(ctx, query, organizationID, sourceID, destinationID).Scan(
		&tariff.ID,
		&tariff.OrganizationID,
		&tariff.SourceID,
		&tariff.DestinationID,
		&tariff.Amount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &tariff, nil
}

// GetRatePerKm retrieves the configured distance rate from the settings
// singleton row.
func (r *TariffRepository) GetRatePerKm(ctx context.Context) (float64, error) {
	var rate float64
	err := r.q.QueryRowContext(ctx,
		`SELECT rate_per_km FROM tariff_settings WHERE id = 1`).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return rate, nil
}

// SetRatePerKm upserts the distance rate on the settings singleton row.
func (r *TariffRepository) SetRatePerKm(ctx context.Context, rate float64) error {
	query := `
		INSERT INTO tariff_settings (id, rate_per_km, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET rate_per_km = $1, updated_at = NOW()
	`

	_, err := r.q.ExecContext(ctx, query, rate)
	return err
}

// Ensure TariffRepository implements repository.TariffRepository.
var _ repository.TariffRepository = (*TariffRepository)(nil)
