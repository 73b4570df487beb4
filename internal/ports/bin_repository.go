package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: a boundary for storing and retrieving Bin entities.
// Missing rows are reported as domain.ErrNotFound, duplicate bin IDs as domain.ErrConflict.
type BinRepository interface {
	Get(ctx context.Context, id int64) (*domain.Bin, error)
	GetByBinID(ctx context.Context, binID string) (*domain.Bin, error)
	// Return all bins ordered by storage ID.
	List(ctx context.Context) ([]*domain.Bin, error)
	// Return the bins matching binIDs; unknown IDs are silently absent.
	ListByBinIDs(ctx context.Context, binIDs []string) ([]*domain.Bin, error)
	Create(ctx context.Context, b *domain.Bin) error
	Update(ctx context.Context, b *domain.Bin) error
	Delete(ctx context.Context, id int64) error
	// Insert or update the bin keyed by BinID. Reports whether a row was created.
	UpsertByBinID(ctx context.Context, b *domain.Bin) (created bool, err error)
}
