package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TrackPointRepository is a PostgreSQL implementation of repository.TrackPointRepository.
type TrackPointRepository struct {
	q Querier
}

// NewTrackPointRepository creates a new PostgreSQL track point repository.
func NewTrackPointRepository(db *sql.DB) *TrackPointRepository {
	return &TrackPointRepository{q: db}
}

// Append persists a new track point.
func (r *TrackPointRepository) Append(ctx context.Context, point *domain.TrackPoint) error {
	query := `
		INSERT INTO track_points (id, vehicle_id, trip_id, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		point.ID,
		point.VehicleID,
		nullString(point.TripID),
		point.Latitude,
		point.Longitude,
		point.RecordedAt,
	)

	return err
}

// ListByTrip retrieves all track points for a trip ordered by recorded_at.
func (r *TrackPointRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.TrackPoint, error) {
	query := `
		SELECT id, vehicle_id, trip_id, latitude, longitude, recorded_at
		FROM track_points
		WHERE trip_id = $1
		ORDER BY recorded_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*domain.TrackPoint
	for rows.Next() {
		var point domain.TrackPoint
		var trip sql.NullString

		if err := rows.Scan(
			&point.ID,
			&point.VehicleID,
			&trip,
			&point.Latitude,
			&point.Longitude,
			&point.RecordedAt,
		); err != nil {
			return nil, err
		}

		point.TripID = trip.String
		points = append(points, &point)
	}

	return points, rows.Err()
}

// Ensure TrackPointRepository implements repository.TrackPointRepository.
var _ repository.TrackPointRepository = (*TrackPointRepository)(nil)
