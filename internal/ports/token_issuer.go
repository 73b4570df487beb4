package ports

import (
	"time"
	"waste-collection-service/internal/domain"
)

// Identity carried by an access token.
type TokenClaims struct {
	Username  string
	Role      domain.RoleName
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(u *domain.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (TokenClaims, error)
}
