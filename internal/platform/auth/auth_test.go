package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
	"waste-collection-service/internal/domain"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	j, err := NewJWTIssuer("0123456789abcdef0123", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	token, exp, err := j.Issue(&domain.User{Username: "alice", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("expiry = %v", exp)
	}

	c, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.Username != "alice" || c.Role != domain.RoleAdmin || !c.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims: %+v", c)
	}

	j.now = func() time.Time { return fixed.Add(2 * time.Hour) }
	if _, err := j.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuerRejectsForeignTokens(t *testing.T) {
	a, _ := NewJWTIssuer("0123456789abcdef-a", time.Hour)
	b, _ := NewJWTIssuer("0123456789abcdef-b", time.Hour)

	token, _, err := a.Issue(&domain.User{Username: "alice", Role: domain.RoleViewer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := a.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewJWTIssuerValidates(t *testing.T) {
	if _, err := NewJWTIssuer("short", time.Hour); err == nil {
		t.Fatalf("expected error for short secret")
	}
	if _, err := NewJWTIssuer("0123456789abcdef", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") || CheckPassword(hash, "wrong") {
		t.Fatalf("password check mismatch")
	}

	p, err := RandomPassword(12)
	if err != nil {
		t.Fatalf("random password: %v", err)
	}
	if len(p) != 12 {
		t.Fatalf("len = %d, want 12", len(p))
	}
	for _, r := range p {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("unexpected character %q", r)
		}
	}
}
