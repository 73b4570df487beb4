package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: an upstream source of live sensor readings.
type SensorFeed interface {
	Fetch(ctx context.Context) ([]domain.SensorReading, error)
}
