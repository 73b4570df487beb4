package ports

import "waste-collection-service/internal/domain"

// Port: radius lookup over a snapshot of bins.
// Hits come back nearest first.
type BinIndex interface {
	Within(center domain.Point, radiusKm float64) []domain.BinDistance
}

// Builds a BinIndex from the bins currently stored.
type BinIndexBuilder func(bins []*domain.Bin) BinIndex
