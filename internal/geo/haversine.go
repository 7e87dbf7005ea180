// Package geo provides great-circle distance calculations.
package geo

import "math"

// earthRadiusKm is the mean radius of the Earth in kilometers.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between
// two coordinates given in degrees, using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	deltaPhi := radians(lat2 - lat1)
	deltaLambda := radians(lng2 - lng1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceMeters returns the great-circle distance in meters.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceKm(lat1, lng1, lat2, lng2) * 1000
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
