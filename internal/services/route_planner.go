package services

import (
	"fmt"
	"math"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/geo"
)

// InvalidInputError reports a coordinate that cannot be routed.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s is not a finite number (%v)", e.Field, e.Value)
}

// Plan a collection route using a greedy nearest-neighbor algorithm.
//
// Starting at origin, the route repeatedly moves to the closest unvisited stop,
// then ends at the terminal closest to the last stop. The algorithm minimizes
// each immediate leg only; it does not attempt global route optimization.
// Inputs are never modified. Coordinates are not validated, so NaN input
// produces NaN distances rather than an error.
func ComputeRoute(origin domain.Point, stops []domain.Stop, terminals []domain.Terminal) domain.Route {
	size := 1 + len(stops)
	if len(terminals) > 0 {
		size++
	}

	route := domain.Route{
		Path:   make([]domain.Point, 0, size),
		Visits: make([]domain.RouteVisit, 0, size-1),
	}
	route.Path = append(route.Path, origin)

	stopPoints := make([]domain.Point, len(stops))
	for i, s := range stops {
		stopPoints[i] = s.Point
	}
	visited := make([]bool, len(stops))
	current := origin

	// Greedy step: always travel to the closest remaining stop.
	for range stops {
		i, km := nearestIndex(current, stopPoints, visited)
		visited[i] = true

		route.Path = append(route.Path, stops[i].Point)
		route.Visits = append(route.Visits, domain.RouteVisit{
			Kind:  domain.VisitStop,
			ID:    stops[i].ID,
			Point: stops[i].Point,
			LegKm: km,
		})
		route.TotalDistanceKm += km
		current = stops[i].Point
	}

	if len(terminals) > 0 {
		termPoints := make([]domain.Point, len(terminals))
		for i, t := range terminals {
			termPoints[i] = t.Point
		}

		i, km := nearestIndex(current, termPoints, nil)
		route.Path = append(route.Path, terminals[i].Point)
		route.Visits = append(route.Visits, domain.RouteVisit{
			Kind:  domain.VisitTerminal,
			ID:    terminals[i].ID,
			Point: terminals[i].Point,
			LegKm: km,
		})
		route.TotalDistanceKm += km
	}

	return route
}

// ComputeRouteStrict rejects non-finite coordinates before planning.
// Out-of-range finite values are accepted and treated as ordinary numbers.
func ComputeRouteStrict(origin domain.Point, stops []domain.Stop, terminals []domain.Terminal) (domain.Route, error) {
	if err := checkFinite("origin", origin); err != nil {
		return domain.Route{}, err
	}
	for i, s := range stops {
		if err := checkFinite(fmt.Sprintf("stops[%d]", i), s.Point); err != nil {
			return domain.Route{}, err
		}
	}
	for i, t := range terminals {
		if err := checkFinite(fmt.Sprintf("terminals[%d]", i), t.Point); err != nil {
			return domain.Route{}, err
		}
	}

	return ComputeRoute(origin, stops, terminals), nil
}

func checkFinite(name string, p domain.Point) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return &InvalidInputError{Field: name + ".lat", Value: p.Lat}
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return &InvalidInputError{Field: name + ".lon", Value: p.Lon}
	}
	return nil
}

// PathDistance sums the haversine legs between consecutive points.
func PathDistance(path []domain.Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += geo.Haversine(path[i-1], path[i])
	}
	return total
}
