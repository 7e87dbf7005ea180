package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

const tripColumns = `id, organization_id, driver_id, vehicle_id,
		source_preset_id, destination_preset_id,
		pickup_lat, pickup_lng, drop_lat, drop_lng,
		is_fixed_tariff, status, start_time, end_time,
		distance_km, total_amount, created_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, organization_id, driver_id, vehicle_id,
			source_preset_id, destination_preset_id,
			pickup_lat, pickup_lng, drop_lat, drop_lng,
			is_fixed_tariff, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		trip.ID,
		trip.OrganizationID,
		trip.DriverID,
		trip.VehicleID,
		nullString(trip.SourcePresetID),
		nullString(trip.DestinationPresetID),
		nullFloat(trip.PickupLat, trip.HasPickupCoords),
		nullFloat(trip.PickupLng, trip.HasPickupCoords),
		nullFloat(trip.DropLat, trip.HasDropCoords),
		nullFloat(trip.DropLng, trip.HasDropCoords),
		trip.IsFixedTariff,
		trip.Status,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// List retrieves trips matching the filter, newest first.
func (r *TripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE ($1 = '' OR organization_id = $1)
		  AND ($2 = '' OR driver_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC LIMIT 200`

	rows, err := r.db.QueryContext(ctx, query,
		filter.OrganizationID,
		filter.DriverID,
		string(filter.Status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Start transitions a pending trip to in_progress. The status guard and
// the write are a single conditional update.
func (r *TripRepository) Start(ctx context.Context, id string, startTime time.Time) (*domain.Trip, error) {
	query := `
		UPDATE trips SET status = $1, start_time = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + tripColumns

	trip, err := scanTrip(r.db.QueryRowContext(ctx, query,
		domain.TripStatusInProgress,
		startTime,
		id,
		domain.TripStatusPending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// Complete transitions an in_progress trip to completed and inserts the
// invoice in the same transaction. Zero affected rows roll everything
// back, so concurrent completions produce exactly one invoice.
func (r *TripRepository) Complete(ctx context.Context, trip *domain.Trip, invoice *domain.Invoice) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		UPDATE trips SET status = $1, end_time = $2, distance_km = $3, total_amount = $4
		WHERE id = $5 AND status = $6
	`

	result, err := tx.ExecContext(ctx, query,
		domain.TripStatusCompleted,
		trip.EndTime,
		trip.DistanceKm,
		trip.TotalAmount,
		trip.ID,
		domain.TripStatusInProgress,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		err = repository.ErrNotFound
		return err
	}

	if err = NewInvoiceRepositoryWithTx(tx).Create(ctx, invoice); err != nil {
		return err
	}

	return tx.Commit()
}

// SetTotalAmount updates only the billed amount of a trip.
func (r *TripRepository) SetTotalAmount(ctx context.Context, id string, amount float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trips SET total_amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var sourcePreset, destinationPreset sql.NullString
	var pickupLat, pickupLng, dropLat, dropLng sql.NullFloat64
	var startTime, endTime sql.NullTime
	var distanceKm, totalAmount sql.NullFloat64

	err := row.Scan(
		&trip.ID,
		&trip.OrganizationID,
		&trip.DriverID,
		&trip.VehicleID,
		&sourcePreset,
		&destinationPreset,
		&pickupLat,
		&pickupLng,
		&dropLat,
		&dropLng,
		&trip.IsFixedTariff,
		&trip.Status,
		&startTime,
		&endTime,
		&distanceKm,
		&totalAmount,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.SourcePresetID = sourcePreset.String
	trip.DestinationPresetID = destinationPreset.String
	if pickupLat.Valid && pickupLng.Valid {
		trip.PickupLat = pickupLat.Float64
		trip.PickupLng = pickupLng.Float64
		trip.HasPickupCoords = true
	}
	if dropLat.Valid && dropLng.Valid {
		trip.DropLat = dropLat.Float64
		trip.DropLng = dropLng.Float64
		trip.HasDropCoords = true
	}
	if startTime.Valid {
		trip.StartTime = startTime.Time
	}
	if endTime.Valid {
		trip.EndTime = endTime.Time
	}
	trip.DistanceKm = distanceKm.Float64
	trip.TotalAmount = totalAmount.Float64

	return &trip, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: valid}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
