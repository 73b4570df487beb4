package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
)

// NearbyBins returns bins within radiusKm of center, nearest first.
// The index is rebuilt from the repository on every call.
func NearbyBins(ctx context.Context, repo ports.BinRepository, build ports.BinIndexBuilder, center domain.Point, radiusKm float64) ([]domain.BinDistance, error) {
	if build == nil {
		return nil, errors.New("nearby bins: no index builder")
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("nearby bins: radius must be a non-negative number, got %v", radiusKm)
	}

	bins, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearby bins: list bins: %w", err)
	}

	return build(bins).Within(center, radiusKm), nil
}
