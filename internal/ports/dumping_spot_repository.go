package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: a boundary for storing and retrieving DumpingSpot entities.
type DumpingSpotRepository interface {
	Get(ctx context.Context, id int64) (*domain.DumpingSpot, error)
	// Return all dumping spots ordered by storage ID.
	List(ctx context.Context) ([]*domain.DumpingSpot, error)
	Create(ctx context.Context, d *domain.DumpingSpot) error
	Update(ctx context.Context, d *domain.DumpingSpot) error
	Delete(ctx context.Context, id int64) error
}
