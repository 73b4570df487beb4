package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/auth"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrIPBlocked          = errors.New("too many failed attempts from this address")
)

// Limits applied to failed logins.
type LoginPolicy struct {
	MaxUserFailures int64
	MaxIPFailures   int64
	// Lifetime of the failure counters.
	Window   time.Duration
	LockFor  time.Duration
	BlockFor time.Duration
}

func DefaultLoginPolicy() LoginPolicy {
	return LoginPolicy{
		MaxUserFailures: 5,
		MaxIPFailures:   10,
		Window:          time.Hour,
		LockFor:         30 * time.Minute,
		BlockFor:        time.Hour,
	}
}

// Length of passwords generated by ResetPassword.
const TempPasswordLength = 12

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Auth authenticates users and exposes the admin operations on login state.
type Auth struct {
	Users    ports.UserRepository
	Throttle ports.LoginThrottle
	Audit    ports.LoginAuditLog
	Tokens   ports.TokenIssuer
	Policy   LoginPolicy
	Now      func() time.Time
}

func (a *Auth) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Auth) Login(ctx context.Context, username, password, ip string) (res *LoginResult, err error) {
	defer obs.Time(ctx, "auth.login")(&err)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	blocked, err := a.Throttle.IsIPBlocked(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if blocked {
		return nil, ErrIPBlocked
	}
	locked, err := a.Throttle.IsAccountLocked(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if locked {
		return nil, ErrAccountLocked
	}

	u, err := a.Users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, a.fail(ctx, username, ip)
	case err != nil:
		return nil, fmt.Errorf("login: get user %q: %w", username, err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, a.fail(ctx, username, ip)
	}
	// Disabled accounts fail without counting against the throttle.
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := a.Throttle.Reset(ctx, username, ip); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	a.audit(ctx, username, ip, true)

	token, exp, err := a.Tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// fail records a failed attempt and applies the lock and block thresholds.
func (a *Auth) fail(ctx context.Context, username, ip string) error {
	a.audit(ctx, username, ip, false)

	userN, ipN, err := a.Throttle.RecordFailure(ctx, username, ip, a.Policy.Window)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if userN >= a.Policy.MaxUserFailures {
		if err := a.Throttle.LockAccount(ctx, username, a.Policy.LockFor); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Printf("account locked user=%s failures=%d", username, userN)
	}
	if ipN >= a.Policy.MaxIPFailures {
		if err := a.Throttle.BlockIP(ctx, ip, a.Policy.BlockFor); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Printf("ip blocked ip=%s failures=%d", ip, ipN)
	}

	return ErrInvalidCredentials
}

// Audit failures are logged and never fail the login.
func (a *Auth) audit(ctx context.Context, username, ip string, ok bool) {
	if a.Audit == nil {
		return
	}
	err := a.Audit.Append(ctx, domain.LoginAttempt{
		Username:  username,
		IPAddress: ip,
		Success:   ok,
		Timestamp: a.now().UTC(),
	})
	if err != nil {
		log.Printf("login audit failed user=%s err=%v", username, err)
	}
}

func (a *Auth) requireUser(ctx context.Context, op, username string) (*domain.User, error) {
	u, err := a.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: get user %q: %w", op, username, err)
	}
	return u, nil
}

func (a *Auth) UnlockAccount(ctx context.Context, username string) error {
	if _, err := a.requireUser(ctx, "unlock account", username); err != nil {
		return err
	}
	if err := a.Throttle.UnlockAccount(ctx, username); err != nil {
		return fmt.Errorf("unlock account: %w", err)
	}
	return nil
}

// ResetPassword sets a random temporary password, unlocks the account and returns the password.
func (a *Auth) ResetPassword(ctx context.Context, username string) (string, error) {
	if _, err := a.requireUser(ctx, "reset password", username); err != nil {
		return "", err
	}

	temp, err := auth.RandomPassword(TempPasswordLength)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	if err := a.Users.SetPassword(ctx, username, hash); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	if err := a.Throttle.UnlockAccount(ctx, username); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return temp, nil
}

// ToggleActive flips the account's active flag and returns the new value.
func (a *Auth) ToggleActive(ctx context.Context, username string) (bool, error) {
	u, err := a.requireUser(ctx, "toggle active", username)
	if err != nil {
		return false, err
	}
	if err := a.Users.SetActive(ctx, username, !u.IsActive); err != nil {
		return false, fmt.Errorf("toggle active: %w", err)
	}
	return !u.IsActive, nil
}

func (a *Auth) ClearIPBlock(ctx context.Context, ip string) error {
	if err := a.Throttle.ClearIP(ctx, ip); err != nil {
		return fmt.Errorf("clear ip block: %w", err)
	}
	return nil
}

func (a *Auth) RecentLogins(ctx context.Context, n int) ([]domain.LoginAttempt, error) {
	if a.Audit == nil {
		return []domain.LoginAttempt{}, nil
	}
	out, err := a.Audit.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("recent logins: %w", err)
	}
	return out, nil
}

func (a *Auth) FailureCounts(ctx context.Context) (map[string]int64, error) {
	out, err := a.Throttle.FailureCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failure counts: %w", err)
	}
	return out, nil
}
