package domain

// PresetLocation is an organization-scoped named geofence: a circle
// defined by center coordinates and a radius in meters. Owned by the
// administrative layer; the core only reads it.
type PresetLocation struct {
	ID             string
	OrganizationID string
	Name           string
	Latitude       float64
	Longitude      float64
	RadiusMeters   float64
	Active         bool
}

// PresetDestination is a predefined drop-off point.
type PresetDestination struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}
