package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"waste-collection-service/internal/adapters/cache"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type authFixture struct {
	svc   *Auth
	users *memUsers
	mr    *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := newMemUsers(
		&domain.User{Username: "alice", PasswordHash: hash, Role: domain.RoleAdmin, IsActive: true},
		&domain.User{Username: "carol", PasswordHash: hash, Role: domain.RoleViewer, IsActive: false},
	)

	issuer, err := auth.NewJWTIssuer("0123456789abcdef-test", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	svc := &Auth{
		Users:    users,
		Throttle: cache.NewRedisLoginThrottle(client),
		Audit:    cache.NewRedisLoginAuditLog(client),
		Tokens:   issuer,
		Policy:   DefaultLoginPolicy(),
	}
	return authFixture{svc: svc, users: users, mr: mr}
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.User.Username != "alice" {
		t.Fatalf("unexpected result: %+v", res)
	}

	claims, err := f.svc.Tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Username != "alice" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	recent, err := f.svc.RecentLogins(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLogins: %v", err)
	}
	if len(recent) != 1 || !recent[0].Success || recent[0].IPAddress != "10.0.0.1" {
		t.Fatalf("audit = %+v", recent)
	}
}

func TestLoginLocksAccountAfterFiveFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(ctx, "alice", "wrong", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.1"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}

	if err := f.svc.UnlockAccount(ctx, "alice"); err != nil {
		t.Fatalf("UnlockAccount: %v", err)
	}
	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.1"); err != nil {
		t.Fatalf("login after unlock: %v", err)
	}

	counts, err := f.svc.FailureCounts(ctx)
	if err != nil {
		t.Fatalf("FailureCounts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("counters not reset after success: %v", counts)
	}
}

func TestLoginLockExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = f.svc.Login(ctx, "alice", "wrong", "10.0.0.1")
	}
	f.mr.FastForward(31 * time.Minute)

	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.1"); err != nil {
		t.Fatalf("login after lock expiry: %v", err)
	}
}

func TestLoginBlocksIPAfterTenFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// Unknown users still count against the address.
	for i := 0; i < 10; i++ {
		_, err := f.svc.Login(ctx, fmt.Sprintf("ghost%d", i), "wrong", "10.0.0.9")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}

	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.9"); !errors.Is(err, ErrIPBlocked) {
		t.Fatalf("err = %v, want ErrIPBlocked", err)
	}
	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.10"); err != nil {
		t.Fatalf("other address should not be blocked: %v", err)
	}

	if err := f.svc.ClearIPBlock(ctx, "10.0.0.9"); err != nil {
		t.Fatalf("ClearIPBlock: %v", err)
	}
	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.9"); err != nil {
		t.Fatalf("login after clearing ip: %v", err)
	}
}

func TestLoginInactiveUserDoesNotCount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "carol", "s3cret-pass", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	counts, err := f.svc.FailureCounts(ctx)
	if err != nil {
		t.Fatalf("FailureCounts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("inactive login changed counters: %v", counts)
	}
}

func TestAdminOperations(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	temp, err := f.svc.ResetPassword(ctx, "alice")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if len(temp) != TempPasswordLength {
		t.Fatalf("temp password length = %d, want %d", len(temp), TempPasswordLength)
	}
	if _, err := f.svc.Login(ctx, "alice", "s3cret-pass", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := f.svc.Login(ctx, "alice", temp, "10.0.0.1"); err != nil {
		t.Fatalf("login with temp password: %v", err)
	}

	active, err := f.svc.ToggleActive(ctx, "carol")
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if !active || !f.users.rows["carol"].IsActive {
		t.Fatal("carol should be active after toggle")
	}

	if err := f.svc.UnlockAccount(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.ResetPassword(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
