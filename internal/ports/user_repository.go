package ports

import (
	"context"
	"waste-collection-service/internal/domain"
)

// Port: a boundary for user accounts.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, username string, active bool) error
	SetPassword(ctx context.Context, username, passwordHash string) error
}

// Port: role definitions with their permission maps.
type RoleRepository interface {
	List(ctx context.Context) ([]*domain.Role, error)
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	// Insert the role or replace its description and permissions.
	Upsert(ctx context.Context, r *domain.Role) error
}
