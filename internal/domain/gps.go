package domain

import "time"

// TrackPoint is a durable GPS observation for a vehicle. Points are
// append-only with server-assigned timestamps and are never mutated.
// The point stream is the system of record for trip distance.
type TrackPoint struct {
	ID         string
	VehicleID  string
	TripID     string // empty when the report was not attached to a trip
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}
