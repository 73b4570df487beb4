package geo

import (
	"math"
	"waste-collection-service/internal/domain"
)

// Mean Earth radius used by all distance calculations.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine returns the great-circle distance between p and q in kilometres.
// Coordinates are not range-checked; NaN input yields NaN.
func Haversine(p, q domain.Point) float64 {
	lat1 := toRadians(p.Lat)
	lat2 := toRadians(q.Lat)
	dLat := toRadians(q.Lat - p.Lat)
	dLon := toRadians(q.Lon - p.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding near antipodes and out-of-range latitudes can push a outside [0, 1].
	a = math.Max(0, math.Min(a, 1))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// BoundingBox returns the lat/lon box that contains every point within
// radiusKm of center. Near the poles the longitude span covers the whole range.
func BoundingBox(center domain.Point, radiusKm float64) (lo, hi domain.Point) {
	angular := radiusKm / EarthRadiusKm
	dLat := angular * 180 / math.Pi

	dLon := 180.0
	cosLat := math.Cos(toRadians(center.Lat))
	if s := math.Sin(angular); angular < math.Pi/2 && s < cosLat {
		dLon = math.Asin(s/cosLat) * 180 / math.Pi
	}

	lo = domain.Point{Lat: math.Max(center.Lat-dLat, -90), Lon: center.Lon - dLon}
	hi = domain.Point{Lat: math.Min(center.Lat+dLat, 90), Lon: center.Lon + dLon}
	return lo, hi
}
