package domain

// Vehicle represents an ambulance. The core reads vehicles only for
// live snapshot enrichment; CRUD is the administrative layer's concern.
type Vehicle struct {
	ID                 string
	OrganizationID     string
	RegistrationNumber string
	MakeModel          string
	Active             bool
}
