package domain

// FixedTariff is a flat price for a specific preset-to-preset route.
// When applicable it overrides distance-based pricing.
type FixedTariff struct {
	ID             string
	OrganizationID string
	SourceID       string
	DestinationID  string
	Amount         float64
}
