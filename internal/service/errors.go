package service

import "errors"

var (
	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidOrganizationID is returned when organization ID is empty.
	ErrInvalidOrganizationID = errors.New("invalid organization id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidVehicleID is returned when vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrMissingRoute is returned when a trip carries neither a complete
	// preset pair nor a complete coordinate pair. Rejected at creation so
	// a trip can never get stuck pending and unpriceable.
	ErrMissingRoute = errors.New("missing route")

	// ErrTripNotApplicable is returned when start or end is called on a
	// trip that does not exist or is not in the required state. The two
	// cases intentionally collapse into one outcome.
	ErrTripNotApplicable = errors.New("trip not found or invalid state")

	// ErrInvoiceGenerationInProgress is returned when an invoice is
	// already being generated for the trip.
	ErrInvoiceGenerationInProgress = errors.New("invoice generation already in progress")
)
