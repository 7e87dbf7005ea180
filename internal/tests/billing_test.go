package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// PRICING
// ──────────────────────────────────────────────

func TestPrice_FixedTariffWinsRegardlessOfDistance(t *testing.T) {
	t.Parallel()

	tariffRepo := NewMockTariffRepository()
	tariffRepo.AddFixed(&domain.FixedTariff{
		ID:             "tariff-1",
		OrganizationID: "org-1",
		SourceID:       "preset-src",
		DestinationID:  "preset-dst",
		Amount:         1200.0,
	})

	billing := service.NewBillingService(
		tariffRepo, NewMockInvoiceRepository(), NewMockTripRepository(), nil, 50.0, nil)

	trip := &domain.Trip{
		ID:                  "trip-1",
		OrganizationID:      "org-1",
		SourcePresetID:      "preset-src",
		DestinationPresetID: "preset-dst",
		IsFixedTariff:       true,
		DistanceKm:          87.3, // irrelevant under a fixed tariff
	}

	amount, err := billing.Price(context.Background(), trip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 1200.0 {
		t.Errorf("expected fixed amount 1200, got %f", amount)
	}
}

func TestPrice_FallsBackToDistanceWhenNoTariffConfigured(t *testing.T) {
	t.Parallel()

	// Trip flagged fixed but no tariff row exists for the route.
	billing := service.NewBillingService(
		NewMockTariffRepository(), NewMockInvoiceRepository(), NewMockTripRepository(), nil, 50.0, nil)

	trip := &domain.Trip{
		ID:                  "trip-1",
		OrganizationID:      "org-1",
		SourcePresetID:      "preset-src",
		DestinationPresetID: "preset-dst",
		IsFixedTariff:       true,
		DistanceKm:          10.0,
	}

	amount, err := billing.Price(context.Background(), trip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 500.0 {
		t.Errorf("expected 10 km * 50 = 500, got %f", amount)
	}
}

func TestPrice_DistancePricingIgnoresTariffWhenNotFlagged(t *testing.T) {
	t.Parallel()

	tariffRepo := NewMockTariffRepository()
	tariffRepo.AddFixed(&domain.FixedTariff{
		OrganizationID: "org-1",
		SourceID:       "preset-src",
		DestinationID:  "preset-dst",
		Amount:         1200.0,
	})

	billing := service.NewBillingService(
		tariffRepo, NewMockInvoiceRepository(), NewMockTripRepository(), nil, 50.0, nil)

	trip := &domain.Trip{
		OrganizationID:      "org-1",
		SourcePresetID:      "preset-src",
		DestinationPresetID: "preset-dst",
		IsFixedTariff:       false,
		DistanceKm:          4.0,
	}

	amount, err := billing.Price(context.Background(), trip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 200.0 {
		t.Errorf("expected 4 km * 50 = 200, got %f", amount)
	}
}

func TestRatePerKm_PersistedRateOverridesDefault(t *testing.T) {
	t.Parallel()

	tariffRepo := NewMockTariffRepository()
	billing := service.NewBillingService(
		tariffRepo, NewMockInvoiceRepository(), NewMockTripRepository(), nil, 50.0, nil)
	ctx := context.Background()

	// Nothing persisted yet: the configured default applies.
	rate, err := billing.RatePerKm(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 50.0 {
		t.Errorf("expected default rate 50, got %f", rate)
	}

	if err := billing.SetRatePerKm(ctx, 72.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate, err = billing.RatePerKm(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 72.5 {
		t.Errorf("expected persisted rate 72.5, got %f", rate)
	}
}

// ──────────────────────────────────────────────
// INVOICE NUMBERS
// ──────────────────────────────────────────────

func TestNewInvoice_NumberFormatAndUniqueness(t *testing.T) {
	t.Parallel()

	billing := service.NewBillingService(
		NewMockTariffRepository(), NewMockInvoiceRepository(), NewMockTripRepository(), nil, 50.0, nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		invoice := billing.NewInvoice("trip-1", 500.0)

		if !strings.HasPrefix(invoice.InvoiceNumber, "INV-trip-1-") {
			t.Fatalf("unexpected invoice number: %s", invoice.InvoiceNumber)
		}
		suffix := strings.TrimPrefix(invoice.InvoiceNumber, "INV-trip-1-")
		if len(suffix) != 8 || suffix != strings.ToUpper(suffix) {
			t.Fatalf("expected 8 uppercase suffix characters, got %q", suffix)
		}
		if invoice.Status != domain.InvoiceStatusPending {
			t.Fatalf("expected pending status, got %s", invoice.Status)
		}
		if seen[invoice.InvoiceNumber] {
			t.Fatalf("duplicate invoice number: %s", invoice.InvoiceNumber)
		}
		seen[invoice.InvoiceNumber] = true
	}
}

// ──────────────────────────────────────────────
// INVOICE REGENERATION
// ──────────────────────────────────────────────

func TestRegenerateInvoice_RepricesAndUpdatesTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:          "trip-1",
		Status:      domain.TripStatusCompleted,
		DistanceKm:  8.0,
		TotalAmount: 400.0,
	})
	invoiceRepo := NewMockInvoiceRepository()
	tariffRepo := NewMockTariffRepository()
	lockStore := NewMockLockStore()

	billing := service.NewBillingService(
		tariffRepo, invoiceRepo, tripRepo, lockStore, 50.0, nil)
	ctx := context.Background()

	// Rate changed since the trip was billed.
	if err := billing.SetRatePerKm(ctx, 60.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invoice, err := billing.RegenerateInvoice(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoice.Amount != 480.0 {
		t.Errorf("expected 8 km * 60 = 480, got %f", invoice.Amount)
	}
	if invoiceRepo.CountInvoices() != 1 {
		t.Errorf("expected one stored invoice, got %d", invoiceRepo.CountInvoices())
	}
	if got := tripRepo.GetTrip("trip-1").TotalAmount; got != 480.0 {
		t.Errorf("expected trip amount updated to 480, got %f", got)
	}
}

func TestRegenerateInvoice_LockBusy(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:     "trip-1",
		Status: domain.TripStatusCompleted,
	})
	lockStore := NewMockLockStore()
	lockStore.HoldLock("trip-1")

	billing := service.NewBillingService(
		NewMockTariffRepository(), NewMockInvoiceRepository(), tripRepo, lockStore, 50.0, nil)

	_, err := billing.RegenerateInvoice(context.Background(), "trip-1")
	if !errors.Is(err, service.ErrInvoiceGenerationInProgress) {
		t.Errorf("expected ErrInvoiceGenerationInProgress, got %v", err)
	}
}

func TestRegenerateInvoice_ReleasesLockAfterRun(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:         "trip-1",
		Status:     domain.TripStatusCompleted,
		DistanceKm: 2.0,
	})
	lockStore := NewMockLockStore()

	billing := service.NewBillingService(
		NewMockTariffRepository(), NewMockInvoiceRepository(), tripRepo, lockStore, 50.0, nil)
	ctx := context.Background()

	if _, err := billing.RegenerateInvoice(ctx, "trip-1"); err != nil {
		t.Fatalf("first regeneration failed: %v", err)
	}
	// Lock released: a second run must not see it held.
	if _, err := billing.RegenerateInvoice(ctx, "trip-1"); err != nil {
		t.Errorf("second regeneration failed: %v", err)
	}
}

func TestRegenerateInvoice_UnknownTrip(t *testing.T) {
	t.Parallel()

	billing := service.NewBillingService(
		NewMockTariffRepository(), NewMockInvoiceRepository(), NewMockTripRepository(), NewMockLockStore(), 50.0, nil)

	if _, err := billing.RegenerateInvoice(context.Background(), "no-such-trip"); err == nil {
		t.Error("expected error for unknown trip")
	}
}
