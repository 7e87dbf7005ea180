package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/metrics"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

const invoiceLockTTL = 10 * time.Second

// BillingService resolves trip cost and emits invoices. Pricing prefers
// a fixed tariff when the trip is flagged for one and both presets
// resolve; otherwise it falls back to distance times the configured
// per-kilometer rate.
type BillingService struct {
	tariffRepo  repository.TariffRepository
	invoiceRepo repository.InvoiceRepository
	tripRepo    repository.TripRepository
	lockStore   redis.LockStoreInterface
	defaultRate float64
	collector   *metrics.Collector
}

// NewBillingService creates a new BillingService. The lock store and
// collector may be nil.
func NewBillingService(
	tariffRepo repository.TariffRepository,
	invoiceRepo repository.InvoiceRepository,
	tripRepo repository.TripRepository,
	lockStore redis.LockStoreInterface,
	defaultRate float64,
	collector *metrics.Collector,
) *BillingService {
	return &BillingService{
		tariffRepo:  tariffRepo,
		invoiceRepo: invoiceRepo,
		tripRepo:    tripRepo,
		lockStore:   lockStore,
		defaultRate: defaultRate,
		collector:   collector,
	}
}

// Price resolves the cost of a trip. A fixed tariff, when applicable,
// wins regardless of distance; distance is still recorded on the trip
// for reporting.
func (s *BillingService) Price(ctx context.Context, trip *domain.Trip) (float64, error) {
	if trip.IsFixedTariff && trip.HasPresetRoute() {
		tariff, err := s.tariffRepo.GetFixed(ctx,
			trip.OrganizationID, trip.SourcePresetID, trip.DestinationPresetID)
		if err == nil {
			return tariff.Amount, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return 0, err
		}
		// No tariff configured for this route: fall through to
		// distance pricing.
	}

	rate, err := s.RatePerKm(ctx)
	if err != nil {
		return 0, err
	}

	return trip.DistanceKm * rate, nil
}

// RatePerKm returns the distance rate: the persisted setting when one
// exists, the configured default otherwise.
func (s *BillingService) RatePerKm(ctx context.Context) (float64, error) {
	rate, err := s.tariffRepo.GetRatePerKm(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.defaultRate, nil
		}
		return 0, err
	}

	return rate, nil
}

// SetRatePerKm persists a new distance rate.
func (s *BillingService) SetRatePerKm(ctx context.Context, rate float64) error {
	if err := s.tariffRepo.SetRatePerKm(ctx, rate); err != nil {
		return err
	}

	if s.collector != nil {
		s.collector.RatePerKm.Set(rate)
	}

	return nil
}

// GetFixedTariff retrieves the fixed tariff for a preset route.
func (s *BillingService) GetFixedTariff(ctx context.Context, organizationID, sourceID, destinationID string) (*domain.FixedTariff, error) {
	return s.tariffRepo.GetFixed(ctx, organizationID, sourceID, destinationID)
}

// NewInvoice builds a pending invoice for a trip. The invoice number is
// a stable prefix plus the trip id plus an opaque suffix, unique even
// under concurrent completions of different trips.
func (s *BillingService) NewInvoice(tripID string, amount float64) *domain.Invoice {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])

	return &domain.Invoice{
		ID:            uuid.New().String(),
		TripID:        tripID,
		Amount:        amount,
		InvoiceNumber: fmt.Sprintf("INV-%s-%s", tripID, suffix),
		Status:        domain.InvoiceStatusPending,
		CreatedAt:     time.Now(),
	}
}

// RegenerateInvoice re-prices an existing trip and creates a fresh
// invoice for it, updating the trip's billed amount. Administrative
// path; guarded by a per-trip lock so concurrent regeneration requests
// cannot duplicate invoices.
func (s *BillingService) RegenerateInvoice(ctx context.Context, tripID string) (*domain.Invoice, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireInvoiceLock(ctx, tripID, invoiceLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrInvoiceGenerationInProgress
		}
		defer func() {
			_ = s.lockStore.ReleaseInvoiceLock(ctx, tripID)
		}()
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	amount, err := s.Price(ctx, trip)
	if err != nil {
		return nil, err
	}

	invoice := s.NewInvoice(trip.ID, amount)
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.tripRepo.SetTotalAmount(ctx, trip.ID, amount); err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.InvoicesCreated.Inc()
		s.collector.InvoicedAmount.Add(amount)
	}

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID.
func (s *BillingService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// ListInvoices retrieves invoices, optionally filtered by trip.
func (s *BillingService) ListInvoices(ctx context.Context, tripID string) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, tripID)
}
