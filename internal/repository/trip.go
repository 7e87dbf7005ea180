package repository

import (
	"context"
	"time"

	"fleet/internal/domain"
)

// TripFilter narrows trip listings. Zero values mean "no filter".
type TripFilter struct {
	OrganizationID string
	DriverID       string
	Status         domain.TripStatus
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves trips matching the filter, newest first.
	List(ctx context.Context, filter TripFilter) ([]*domain.Trip, error)

	// Start transitions a trip from pending to in_progress with a single
	// conditional update and returns the updated trip. Returns ErrNotFound
	// when the trip does not exist or is not pending; callers cannot
	// distinguish the two cases.
	Start(ctx context.Context, id string, startTime time.Time) (*domain.Trip, error)

	// Complete transitions a trip from in_progress to completed and
	// persists the invoice in the same transaction. The status guard and
	// the write are atomic: under concurrent completion attempts exactly
	// one succeeds and exactly one invoice is created. Returns ErrNotFound
	// when the trip does not exist or is not in_progress.
	Complete(ctx context.Context, trip *domain.Trip, invoice *domain.Invoice) error

	// SetTotalAmount updates only the billed amount of a trip. Used by the
	// administrative invoice regeneration path.
	SetTotalAmount(ctx context.Context, id string, amount float64) error
}
