package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `
		SELECT id, organization_id, registration_number, make_model, active
		FROM vehicles WHERE id = $1
	`

	var vehicle domain.Vehicle
	var makeModel sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&vehicle.ID,
		&vehicle.OrganizationID,
		&vehicle.RegistrationNumber,
		&makeModel,
		&vehicle.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	vehicle.MakeModel = makeModel.String

	return &vehicle, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
