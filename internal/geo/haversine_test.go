package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	t.Parallel()

	if d := DistanceKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("expected 0 for identical coordinates, got %f", d)
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{name: "bangalore pair", lat1: 12.9716, lng1: 77.5946, lat2: 12.9784, lng2: 77.6408},
		{name: "across equator", lat1: -1.2921, lng1: 36.8219, lat2: 1.3521, lng2: 103.8198},
		{name: "across date line", lat1: 51.5074, lng1: 179.9, lat2: 52.3676, lng2: -179.9},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ab := DistanceKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			ba := DistanceKm(tc.lat2, tc.lng2, tc.lat1, tc.lng1)

			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance not symmetric: a->b=%f b->a=%f", ab, ba)
			}
			if ab < 0 {
				t.Errorf("distance must be non-negative, got %f", ab)
			}
		})
	}
}

func TestDistanceKm_BangaloreScenario(t *testing.T) {
	t.Parallel()

	// MG Road to Indiranagar area, ~5.1 km great-circle.
	d := DistanceKm(12.9716, 77.5946, 12.9784, 77.6408)
	if d < 4.9 || d > 5.2 {
		t.Errorf("expected ~5.1 km, got %f", d)
	}
}

func TestDistanceMeters_IsKmTimesThousand(t *testing.T) {
	t.Parallel()

	km := DistanceKm(12.9716, 77.5946, 12.9784, 77.6408)
	m := DistanceMeters(12.9716, 77.5946, 12.9784, 77.6408)

	if math.Abs(m-km*1000) > 1e-6 {
		t.Errorf("meters variant mismatch: km=%f m=%f", km, m)
	}
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	t.Parallel()

	// Bangalore to Chennai, ~290 km great-circle.
	d := DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
	if d < 280 || d > 300 {
		t.Errorf("expected ~290 km, got %f", d)
	}
}
