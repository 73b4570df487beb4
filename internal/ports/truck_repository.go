package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: a boundary for storing and retrieving Truck entities.
type TruckRepository interface {
	Get(ctx context.Context, id int64) (*domain.Truck, error)
	GetByTruckID(ctx context.Context, truckID string) (*domain.Truck, error)
	List(ctx context.Context) ([]*domain.Truck, error)
	Create(ctx context.Context, t *domain.Truck) error
	Update(ctx context.Context, t *domain.Truck) error
	Delete(ctx context.Context, id int64) error
}
