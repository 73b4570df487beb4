package services

import (
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/geo"
)

// nearestIndex returns the index of the candidate closest to from, and its distance.
//
// Candidates are scanned in input order with a strict comparison, so the first
// candidate wins when distances are equal. visited marks candidates already used
// and may be nil. It returns -1 when no candidate is left.
//
// The first unvisited candidate is always taken as the starting best, so NaN
// distances never cause a candidate to be dropped.
func nearestIndex(from domain.Point, candidates []domain.Point, visited []bool) (int, float64) {
	best := -1
	var bestKm float64

	for i, p := range candidates {
		if visited != nil && visited[i] {
			continue
		}
		d := geo.Haversine(from, p)
		if best == -1 || d < bestKm {
			best = i
			bestKm = d
		}
	}

	return best, bestKm
}
