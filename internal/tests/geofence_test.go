package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func TestDetect_CenterAlwaysMatches(t *testing.T) {
	t.Parallel()

	presetRepo := NewMockPresetRepository()
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-1",
		OrganizationID: "org-1",
		Name:           "City Hospital",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   200,
		Active:         true,
	})
	svc := service.NewGeofenceService(presetRepo)

	preset, err := svc.Detect(context.Background(), "org-1", 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset == nil || preset.ID != "preset-1" {
		t.Fatal("expected match at the geofence center")
	}
}

func TestDetect_BoundaryIsInside(t *testing.T) {
	t.Parallel()

	// Zero-radius geofence: only the exact center is inside, because
	// the containment check is distance <= radius.
	presetRepo := NewMockPresetRepository()
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-1",
		OrganizationID: "org-1",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   0,
		Active:         true,
	})
	svc := service.NewGeofenceService(presetRepo)

	preset, err := svc.Detect(context.Background(), "org-1", 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset == nil {
		t.Fatal("expected the center of a zero-radius geofence to match")
	}
}

func TestDetect_OutsideAllReturnsNilNil(t *testing.T) {
	t.Parallel()

	presetRepo := NewMockPresetRepository()
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-1",
		OrganizationID: "org-1",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   100,
		Active:         true,
	})
	svc := service.NewGeofenceService(presetRepo)

	// Several kilometers away from the only geofence.
	preset, err := svc.Detect(context.Background(), "org-1", 12.9784, 77.6408)
	if err != nil {
		t.Fatalf("expected nil error on no match, got %v", err)
	}
	if preset != nil {
		t.Errorf("expected no match, got %s", preset.ID)
	}
}

func TestDetect_FirstMatchWinsOnOverlap(t *testing.T) {
	t.Parallel()

	// Two concentric geofences both containing the point; the one
	// listed first wins even though the second is the tighter fit.
	presetRepo := NewMockPresetRepository()
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-wide",
		OrganizationID: "org-1",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   5000,
		Active:         true,
	})
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-tight",
		OrganizationID: "org-1",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   100,
		Active:         true,
	})
	svc := service.NewGeofenceService(presetRepo)

	preset, err := svc.Detect(context.Background(), "org-1", 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset == nil || preset.ID != "preset-wide" {
		t.Errorf("expected first-listed preset-wide to win")
	}
}

func TestDetect_IgnoresInactiveAndForeignPresets(t *testing.T) {
	t.Parallel()

	presetRepo := NewMockPresetRepository()
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-inactive",
		OrganizationID: "org-1",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   1000,
		Active:         false,
	})
	presetRepo.AddLocation(&domain.PresetLocation{
		ID:             "preset-other-org",
		OrganizationID: "org-2",
		Latitude:       12.9716,
		Longitude:      77.5946,
		RadiusMeters:   1000,
		Active:         true,
	})
	svc := service.NewGeofenceService(presetRepo)

	preset, err := svc.Detect(context.Background(), "org-1", 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset != nil {
		t.Errorf("expected no match, got %s", preset.ID)
	}
}

func TestDetect_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := service.NewGeofenceService(NewMockPresetRepository())
	ctx := context.Background()

	if _, err := svc.Detect(ctx, "", 12.97, 77.59); !errors.Is(err, service.ErrInvalidOrganizationID) {
		t.Errorf("expected ErrInvalidOrganizationID, got %v", err)
	}
	if _, err := svc.Detect(ctx, "org-1", 91.0, 77.59); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation for bad latitude, got %v", err)
	}
	if _, err := svc.Detect(ctx, "org-1", 12.97, 181.0); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation for bad longitude, got %v", err)
	}
}
