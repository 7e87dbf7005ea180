package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func newGPSService(liveStore *MockLiveStore, pointRepo *MockTrackPointRepository, tripRepo *MockTripRepository, presetRepo *MockPresetRepository, vehicleRepo *MockVehicleRepository) *service.GPSService {
	return service.NewGPSService(liveStore, nil, pointRepo, tripRepo, presetRepo, vehicleRepo, nil)
}

// ──────────────────────────────────────────────
// POSITION REPORTS
// ──────────────────────────────────────────────

func TestReportPosition_OverwritesLiveEntry(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())
	ctx := context.Background()

	first := service.ReportPositionRequest{VehicleID: "vehicle-1", Lat: 12.9716, Lng: 77.5946}
	second := service.ReportPositionRequest{VehicleID: "vehicle-1", Lat: 12.9784, Lng: 77.6408}

	if err := svc.ReportPosition(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ReportPosition(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if liveStore.CountPositions() != 1 {
		t.Errorf("expected a single live entry per vehicle, got %d", liveStore.CountPositions())
	}
	pos, err := liveStore.Get(ctx, "vehicle-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Latitude != 12.9784 || pos.Longitude != 77.6408 {
		t.Errorf("expected last write to win, got %f,%f", pos.Latitude, pos.Longitude)
	}
}

func TestReportPosition_TripAttachmentControlsDurability(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	pointRepo := NewMockTrackPointRepository()
	svc := newGPSService(liveStore, pointRepo, NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())
	ctx := context.Background()

	// Without a trip id the report only refreshes the live cache.
	err := svc.ReportPosition(ctx, service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.9716, Lng: 77.5946,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pointRepo.CountPoints() != 0 {
		t.Errorf("expected no track point without a trip id, got %d", pointRepo.CountPoints())
	}

	// With a trip id a durable track point is appended as well.
	err = svc.ReportPosition(ctx, service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.9720, Lng: 77.5950, TripID: "trip-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pointRepo.CountPoints() != 1 {
		t.Errorf("expected one track point, got %d", pointRepo.CountPoints())
	}
	points, err := pointRepo.ListByTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].RecordedAt.IsZero() {
		t.Error("expected a timestamped point attached to trip-1")
	}
}

func TestReportPosition_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	svc := newGPSService(NewMockLiveStore(), NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())
	ctx := context.Background()

	err := svc.ReportPosition(ctx, service.ReportPositionRequest{Lat: 12.97, Lng: 77.59})
	if !errors.Is(err, service.ErrInvalidVehicleID) {
		t.Errorf("expected ErrInvalidVehicleID, got %v", err)
	}

	err = svc.ReportPosition(ctx, service.ReportPositionRequest{VehicleID: "vehicle-1", Lat: -91.0, Lng: 77.59})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestReportPosition_TrackPointFailureStillRefreshesLive(t *testing.T) {
	t.Parallel()

	// The live cache write is independent of the durable append: a
	// Postgres outage surfaces as an error but never hides the vehicle
	// from live tracking.
	liveStore := NewMockLiveStore()
	pointRepo := NewMockTrackPointRepository()
	pointRepo.AppendError = errors.New("db down")
	svc := newGPSService(liveStore, pointRepo, NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())

	err := svc.ReportPosition(context.Background(), service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.97, Lng: 77.59, TripID: "trip-1",
	})
	if err == nil {
		t.Fatal("expected error when the durable write fails")
	}
	if got := atomic.LoadInt32(&liveStore.UpdateCallCount); got != 1 {
		t.Errorf("expected one live update, got %d", got)
	}
	pos, getErr := liveStore.Get(context.Background(), "vehicle-1")
	if getErr != nil {
		t.Fatalf("unexpected error: %v", getErr)
	}
	if pos == nil || pos.Latitude != 12.97 || pos.Longitude != 77.59 {
		t.Error("expected the live entry to hold the reported position")
	}
}

func TestReportPosition_LiveStoreFailureSkipsTrackPoint(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	liveStore.UpdateError = errors.New("redis down")
	pointRepo := NewMockTrackPointRepository()
	svc := newGPSService(liveStore, pointRepo, NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())

	err := svc.ReportPosition(context.Background(), service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.97, Lng: 77.59, TripID: "trip-1",
	})
	if err == nil {
		t.Fatal("expected error when the live update fails")
	}
	if pointRepo.CountPoints() != 0 {
		t.Error("expected no track point after a failed live update")
	}
}

// ──────────────────────────────────────────────
// LIVE SNAPSHOTS
// ──────────────────────────────────────────────

func TestListLive_EnrichesWithVehicleAndRoute(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	tripRepo := NewMockTripRepository()
	presetRepo := NewMockPresetRepository()
	vehicleRepo := NewMockVehicleRepository()

	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:                 "vehicle-1",
		OrganizationID:     "org-1",
		RegistrationNumber: "KA-01-1234",
	})
	tripRepo.AddTrip(&domain.Trip{
		ID:                  "trip-1",
		SourcePresetID:      "preset-src",
		DestinationPresetID: "preset-dst",
		Status:              domain.TripStatusInProgress,
	})
	presetRepo.AddLocation(&domain.PresetLocation{ID: "preset-src", OrganizationID: "org-1", Name: "City Hospital", Active: true})
	presetRepo.AddDestination(&domain.PresetDestination{ID: "preset-dst", Name: "Trauma Center"})

	svc := newGPSService(liveStore, NewMockTrackPointRepository(), tripRepo, presetRepo, vehicleRepo)
	ctx := context.Background()

	err := svc.ReportPosition(ctx, service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.9716, Lng: 77.5946, TripID: "trip-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshots, err := svc.ListLive(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(snapshots))
	}
	s := snapshots[0]
	if s.Registration != "KA-01-1234" {
		t.Errorf("expected registration enrichment, got %q", s.Registration)
	}
	if s.PickupName != "City Hospital" || s.DestinationName != "Trauma Center" {
		t.Errorf("expected route enrichment, got %q -> %q", s.PickupName, s.DestinationName)
	}
}

func TestListLive_EnrichmentDegradesToRawIdentifiers(t *testing.T) {
	t.Parallel()

	// No vehicles, trips, or presets resolvable: the snapshot still
	// appears with raw identifiers only.
	liveStore := NewMockLiveStore()
	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())
	ctx := context.Background()

	err := svc.ReportPosition(ctx, service.ReportPositionRequest{
		VehicleID: "vehicle-x", Lat: 12.97, Lng: 77.59, TripID: "trip-x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshots, err := svc.ListLive(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(snapshots))
	}
	s := snapshots[0]
	if s.VehicleID != "vehicle-x" || s.TripID != "trip-x" {
		t.Error("expected raw identifiers to survive")
	}
	if s.Registration != "" || s.PickupName != "" || s.DestinationName != "" {
		t.Error("expected empty enrichment fields on lookup misses")
	}
}

func TestListLive_OrganizationFilter(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", OrganizationID: "org-1", RegistrationNumber: "KA-01-1111"})
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-2", OrganizationID: "org-2", RegistrationNumber: "KA-02-2222"})

	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), vehicleRepo)
	ctx := context.Background()

	for _, id := range []string{"vehicle-1", "vehicle-2"} {
		err := svc.ReportPosition(ctx, service.ReportPositionRequest{VehicleID: id, Lat: 12.97, Lng: 77.59})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snapshots, err := svc.ListLive(ctx, "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].VehicleID != "vehicle-1" {
		t.Errorf("expected only org-1's vehicle, got %d snapshots", len(snapshots))
	}
}

func TestListLive_UnresolvableVehicleSurvivesOrgFilter(t *testing.T) {
	t.Parallel()

	// A vehicle the repo cannot resolve has no organization to compare,
	// so a filtered listing still includes it raw rather than hiding a
	// live ambulance.
	liveStore := NewMockLiveStore()
	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())
	ctx := context.Background()

	err := svc.ReportPosition(ctx, service.ReportPositionRequest{VehicleID: "vehicle-ghost", Lat: 12.97, Lng: 77.59})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshots, err := svc.ListLive(ctx, "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].VehicleID != "vehicle-ghost" {
		t.Errorf("expected the unresolvable vehicle to appear, got %d snapshots", len(snapshots))
	}
}

func TestGetLive_ReturnsEnrichedSnapshot(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:                 "vehicle-1",
		OrganizationID:     "org-1",
		RegistrationNumber: "KA-01-1234",
	})
	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), vehicleRepo)
	ctx := context.Background()

	err := svc.ReportPosition(ctx, service.ReportPositionRequest{
		VehicleID: "vehicle-1", Lat: 12.9716, Lng: 77.5946,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := svc.GetLive(ctx, "vehicle-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot == nil {
		t.Fatal("expected a snapshot for a tracking vehicle")
	}
	if snapshot.Lat != 12.9716 || snapshot.Lng != 77.5946 {
		t.Errorf("unexpected position %f,%f", snapshot.Lat, snapshot.Lng)
	}
	if snapshot.Registration != "KA-01-1234" {
		t.Errorf("expected registration enrichment, got %q", snapshot.Registration)
	}
}

func TestGetLive_NotTrackingReturnsNilNil(t *testing.T) {
	t.Parallel()

	svc := newGPSService(NewMockLiveStore(), NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())

	snapshot, err := svc.GetLive(context.Background(), "vehicle-silent")
	if err != nil {
		t.Fatalf("expected nil error for an absent entry, got %v", err)
	}
	if snapshot != nil {
		t.Error("expected no snapshot for a vehicle that never reported")
	}
}

func TestGetLive_RequiresVehicleID(t *testing.T) {
	t.Parallel()

	svc := newGPSService(NewMockLiveStore(), NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())

	if _, err := svc.GetLive(context.Background(), ""); !errors.Is(err, service.ErrInvalidVehicleID) {
		t.Errorf("expected ErrInvalidVehicleID, got %v", err)
	}
}

func TestListLive_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	liveStore := NewMockLiveStore()
	liveStore.ListLiveError = errors.New("redis down")
	svc := newGPSService(liveStore, NewMockTrackPointRepository(), NewMockTripRepository(), NewMockPresetRepository(), NewMockVehicleRepository())

	if _, err := svc.ListLive(context.Background(), ""); err == nil {
		t.Error("expected store error to propagate")
	}
}
