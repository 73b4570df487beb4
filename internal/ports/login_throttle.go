package ports

import (
	"context"
	"time"
	"waste-collection-service/internal/domain"
)

// Port: counters and locks that throttle repeated failed logins.
// Implementations keep state outside the process so every server instance sees it.
type LoginThrottle interface {
	IsIPBlocked(ctx context.Context, ip string) (bool, error)
	IsAccountLocked(ctx context.Context, username string) (bool, error)
	// Increment the user and IP failure counters, each living for window.
	RecordFailure(ctx context.Context, username, ip string, window time.Duration) (userFailures, ipFailures int64, err error)
	LockAccount(ctx context.Context, username string, d time.Duration) error
	BlockIP(ctx context.Context, ip string, d time.Duration) error
	// Clear counters and locks for both the user and the IP.
	Reset(ctx context.Context, username, ip string) error
	UnlockAccount(ctx context.Context, username string) error
	ClearIP(ctx context.Context, ip string) error
	// Return the live failure counters keyed by "user_attempts:<name>" or "ip_attempts:<ip>".
	FailureCounts(ctx context.Context) (map[string]int64, error)
}

// Port: a short rolling history of login attempts.
type LoginAuditLog interface {
	Append(ctx context.Context, a domain.LoginAttempt) error
	// Return up to n attempts, newest first.
	Recent(ctx context.Context, n int) ([]domain.LoginAttempt, error)
}
