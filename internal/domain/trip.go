package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending    TripStatus = "pending"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
)

// Trip represents an ambulance trip. Status only ever advances
// pending -> in_progress -> completed.
type Trip struct {
	ID             string
	OrganizationID string
	DriverID       string
	VehicleID      string

	// Route: a preset pair, raw coordinates, or both. At least one
	// form must be present before the trip can be priced.
	SourcePresetID      string
	DestinationPresetID string
	PickupLat           float64
	PickupLng           float64
	HasPickupCoords     bool
	DropLat             float64
	DropLng             float64
	HasDropCoords       bool

	IsFixedTariff bool

	Status    TripStatus
	StartTime time.Time // zero until started
	EndTime   time.Time // zero until completed

	// Populated at completion only.
	DistanceKm  float64
	TotalAmount float64

	CreatedAt time.Time
}

// HasPresetRoute reports whether both a source and destination preset are set.
func (t *Trip) HasPresetRoute() bool {
	return t.SourcePresetID != "" && t.DestinationPresetID != ""
}

// HasCoordinateRoute reports whether both raw pickup and drop coordinates are set.
func (t *Trip) HasCoordinateRoute() bool {
	return t.HasPickupCoords && t.HasDropCoords
}
