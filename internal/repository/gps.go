package repository

import (
	"context"

	"fleet/internal/domain"
)

// TrackPointRepository defines the persistence operations for GPS track points.
// Track points are append-only; there is no update or delete.
type TrackPointRepository interface {
	// Append persists a new track point with a server-assigned timestamp.
	Append(ctx context.Context, point *domain.TrackPoint) error

	// ListByTrip retrieves all track points attached to a trip, ordered by
	// recorded_at ascending.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.TrackPoint, error)
}
