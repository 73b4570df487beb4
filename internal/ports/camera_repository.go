package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

type CameraRepository interface {
	Get(ctx context.Context, id int64) (*domain.Camera, error)
	List(ctx context.Context) ([]*domain.Camera, error)
	Create(ctx context.Context, c *domain.Camera) error
	Update(ctx context.Context, c *domain.Camera) error
	Delete(ctx context.Context, id int64) error
}

type CameraImageRepository interface {
	Get(ctx context.Context, id int64) (*domain.CameraImage, error)
	// Return images for one camera, newest first.
	ListByCamera(ctx context.Context, cameraID int64) ([]*domain.CameraImage, error)
	Create(ctx context.Context, img *domain.CameraImage) error
	Update(ctx context.Context, img *domain.CameraImage) error
	Delete(ctx context.Context, id int64) error
}
