package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: a boundary for persisted sensor readings.
type SensorReadingRepository interface {
	Get(ctx context.Context, id int64) (*domain.SensorReading, error)
	// Return at most limit readings, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.SensorReading, error)
	Create(ctx context.Context, r *domain.SensorReading) error
	Update(ctx context.Context, r *domain.SensorReading) error
	Delete(ctx context.Context, id int64) error
}
