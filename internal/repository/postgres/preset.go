package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// PresetRepository is a PostgreSQL implementation of repository.PresetRepository.
type PresetRepository struct {
	q Querier
}

// NewPresetRepository creates a new PostgreSQL preset repository.
func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{q: db}
}

// GetLocation retrieves a preset location by ID.
func (r *PresetRepository) GetLocation(ctx context.Context, id string) (*domain.PresetLocation, error) {
	query := `
		SELECT id, organization_id, name, latitude, longitude, radius_meters, active
		FROM preset_locations WHERE id = $1
	`

	var preset domain.PresetLocation
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&preset.ID,
		&preset.OrganizationID,
		&preset.Name,
		&preset.Latitude,
		&preset.Longitude,
		&preset.RadiusMeters,
		&preset.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &preset, nil
}

// ListActiveLocations retrieves the active preset locations for an organization.
func (r *PresetRepository) ListActiveLocations(ctx context.Context, organizationID string) ([]*domain.PresetLocation, error) {
	query := `
		SELECT id, organization_id, name, latitude, longitude, radius_meters, active
		FROM preset_locations
		WHERE organization_id = $1 AND active = TRUE
		ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*domain.PresetLocation
	for rows.Next() {
		var preset domain.PresetLocation
		if err := rows.Scan(
			&preset.ID,
			&preset.OrganizationID,
			&preset.Name,
			&preset.Latitude,
			&preset.Longitude,
			&preset.RadiusMeters,
			&preset.Active,
		); err != nil {
			return nil, err
		}
		presets = append(presets, &preset)
	}

	return presets, rows.Err()
}

// GetDestination retrieves a preset destination by ID.
func (r *PresetRepository) GetDestination(ctx context.Context, id string) (*domain.PresetDestination, error) {
	query := `
		SELECT id, name, latitude, longitude
		FROM preset_destinations WHERE id = $1
	`

	var destination domain.PresetDestination
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&destination.ID,
		&destination.Name,
		&destination.Latitude,
		&destination.Longitude,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &destination, nil
}

// Ensure PresetRepository implements repository.PresetRepository.
var _ repository.PresetRepository = (*PresetRepository)(nil)
