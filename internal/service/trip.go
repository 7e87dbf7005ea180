package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/geo"
	"fleet/internal/metrics"
	"fleet/internal/repository"
)

// TripService owns the trip state machine: pending -> in_progress ->
// completed, never skipped and never reversed. Completion reduces the
// trip's durable track points into a distance and hands the trip to the
// billing engine.
type TripService struct {
	tripRepo  repository.TripRepository
	pointRepo repository.TrackPointRepository
	billing   *BillingService
	collector *metrics.Collector
}

// NewTripService creates a new TripService. The collector may be nil.
func NewTripService(
	tripRepo repository.TripRepository,
	pointRepo repository.TrackPointRepository,
	billing *BillingService,
	collector *metrics.Collector,
) *TripService {
	return &TripService{
		tripRepo:  tripRepo,
		pointRepo: pointRepo,
		billing:   billing,
		collector: collector,
	}
}

// Coordinates is a raw latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	OrganizationID      string
	DriverID            string
	VehicleID           string
	SourcePresetID      string
	DestinationPresetID string
	Pickup              *Coordinates
	Drop                *Coordinates
	IsFixedTariff       bool
}

// CreateTrip validates the request and persists a new pending trip.
// The route must be resolvable in at least one form: a complete preset
// pair or a complete coordinate pair.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.OrganizationID == "" {
		return nil, ErrInvalidOrganizationID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	trip := &domain.Trip{
		ID:                  uuid.New().String(),
		OrganizationID:      req.OrganizationID,
		DriverID:            req.DriverID,
		VehicleID:           req.VehicleID,
		SourcePresetID:      req.SourcePresetID,
		DestinationPresetID: req.DestinationPresetID,
		IsFixedTariff:       req.IsFixedTariff,
		Status:              domain.TripStatusPending,
		CreatedAt:           time.Now(),
	}

	if req.Pickup != nil {
		if !isValidLatitude(req.Pickup.Lat) || !isValidLongitude(req.Pickup.Lng) {
			return nil, ErrInvalidLocation
		}
		trip.PickupLat = req.Pickup.Lat
		trip.PickupLng = req.Pickup.Lng
		trip.HasPickupCoords = true
	}
	if req.Drop != nil {
		if !isValidLatitude(req.Drop.Lat) || !isValidLongitude(req.Drop.Lng) {
			return nil, ErrInvalidLocation
		}
		trip.DropLat = req.Drop.Lat
		trip.DropLng = req.Drop.Lng
		trip.HasDropCoords = true
	}

	if !trip.HasPresetRoute() && !trip.HasCoordinateRoute() {
		return nil, ErrMissingRoute
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.TripsCreated.Inc()
	}

	return trip, nil
}

// StartTrip transitions a pending trip to in_progress and stamps its
// start time. A trip that does not exist or is not pending yields
// ErrTripNotApplicable; the caller cannot tell the two apart.
func (s *TripService) StartTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.Start(ctx, tripID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotApplicable
		}
		return nil, err
	}

	if s.collector != nil {
		s.collector.TripsStarted.Inc()
	}

	return trip, nil
}

// EndTripResponse contains the result of ending a trip.
type EndTripResponse struct {
	Trip    *domain.Trip
	Invoice *domain.Invoice
}

// EndTrip completes an in_progress trip: stamps the end time, reduces
// the trip's track points into a total distance, prices the trip, and
// persists the completed trip together with its invoice atomically.
// The in_progress guard is re-checked inside the conditional update, so
// concurrent end calls produce exactly one invoice.
func (s *TripService) EndTrip(ctx context.Context, tripID string) (*EndTripResponse, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotApplicable
		}
		return nil, err
	}

	if trip.Status != domain.TripStatusInProgress {
		return nil, ErrTripNotApplicable
	}

	points, err := s.pointRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	trip.EndTime = time.Now()
	trip.DistanceKm = trackDistanceKm(points)

	amount, err := s.billing.Price(ctx, trip)
	if err != nil {
		return nil, err
	}
	trip.TotalAmount = amount
	trip.Status = domain.TripStatusCompleted

	invoice := s.billing.NewInvoice(trip.ID, amount)

	if err := s.tripRepo.Complete(ctx, trip, invoice); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race against a concurrent end call.
			return nil, ErrTripNotApplicable
		}
		return nil, err
	}

	if s.collector != nil {
		s.collector.TripsCompleted.Inc()
		s.collector.InvoicesCreated.Inc()
		s.collector.InvoicedAmount.Add(amount)
	}

	return &EndTripResponse{Trip: trip, Invoice: invoice}, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// ListTrips retrieves trips matching the filter.
func (s *TripService) ListTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	return s.tripRepo.List(ctx, filter)
}

// trackDistanceKm sums the haversine distance over consecutive track
// points. Fewer than two points means no measurable distance.
func trackDistanceKm(points []*domain.TrackPoint) float64 {
	if len(points) < 2 {
		return 0
	}

	total := 0.0
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		total += geo.DistanceKm(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
	}

	return total
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
