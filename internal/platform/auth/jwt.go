package auth

import (
	"errors"
	"fmt"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "waste-collection-service"

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 access tokens. It implements ports.TokenIssuer.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt issuer: secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt issuer: ttl must be positive, got %s", ttl)
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (j *JWTIssuer) Issue(u *domain.User) (string, time.Time, error) {
	if u == nil || u.Username == "" {
		return "", time.Time{}, errors.New("issue token: user is empty")
	}

	now := j.now()
	exp := now.Add(j.ttl)
	c := claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: sign: %w", err)
	}
	return signed, exp, nil
}

func (j *JWTIssuer) Verify(token string) (ports.TokenClaims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return ports.TokenClaims{}, fmt.Errorf("verify token: %w", errors.Join(ErrInvalidToken, err))
	}
	if c.Subject == "" {
		return ports.TokenClaims{}, fmt.Errorf("verify token: missing subject: %w", ErrInvalidToken)
	}

	out := ports.TokenClaims{Username: c.Subject, Role: domain.RoleName(c.Role)}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
