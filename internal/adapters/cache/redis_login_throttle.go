package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"waste-collection-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const (
	userAttemptsPrefix  = "user_attempts:"
	ipAttemptsPrefix    = "ip_attempts:"
	accountLockedPrefix = "account_locked:"
	ipBlockedPrefix     = "ip_blocked:"
)

// RedisLoginThrottle keeps failed-login counters and locks in Redis.
// Every key carries its own TTL, so stale state expires without a sweeper.
type RedisLoginThrottle struct {
	Client redis.UniversalClient
	// Optional namespace prepended to every key.
	Prefix string
}

func NewRedisLoginThrottle(client redis.UniversalClient) *RedisLoginThrottle {
	return &RedisLoginThrottle{Client: client}
}

func (r *RedisLoginThrottle) key(prefix, id string) string {
	return r.Prefix + prefix + id
}

func (r *RedisLoginThrottle) exists(ctx context.Context, key string) (bool, error) {
	if r.Client == nil {
		return false, errors.New("login throttle: redis client is nil")
	}
	n, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisLoginThrottle) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	blocked, err := r.exists(ctx, r.key(ipBlockedPrefix, ip))
	if err != nil {
		return false, fmt.Errorf("login throttle: check ip %q: %w", ip, err)
	}
	return blocked, nil
}

func (r *RedisLoginThrottle) IsAccountLocked(ctx context.Context, username string) (bool, error) {
	locked, err := r.exists(ctx, r.key(accountLockedPrefix, username))
	if err != nil {
		return false, fmt.Errorf("login throttle: check account %q: %w", username, err)
	}
	return locked, nil
}

// Increment both counters atomically and refresh their TTL to window.
func (r *RedisLoginThrottle) RecordFailure(
	ctx context.Context,
	username, ip string,
	window time.Duration,
) (userFailures, ipFailures int64, err error) {
	defer obs.Time(ctx, "login.throttle.RecordFailure")(&err)

	if r.Client == nil {
		return 0, 0, errors.New("login throttle: redis client is nil")
	}

	userKey := r.key(userAttemptsPrefix, username)
	ipKey := r.key(ipAttemptsPrefix, ip)

	var userIncr, ipIncr *redis.IntCmd
	_, err = r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		userIncr = p.Incr(ctx, userKey)
		p.Expire(ctx, userKey, window)
		ipIncr = p.Incr(ctx, ipKey)
		p.Expire(ctx, ipKey, window)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("login throttle: record failure user=%q ip=%q: %w", username, ip, err)
	}

	return userIncr.Val(), ipIncr.Val(), nil
}

func (r *RedisLoginThrottle) LockAccount(ctx context.Context, username string, d time.Duration) error {
	if r.Client == nil {
		return errors.New("login throttle: redis client is nil")
	}
	if err := r.Client.Set(ctx, r.key(accountLockedPrefix, username), 1, d).Err(); err != nil {
		return fmt.Errorf("login throttle: lock account %q: %w", username, err)
	}
	return nil
}

func (r *RedisLoginThrottle) BlockIP(ctx context.Context, ip string, d time.Duration) error {
	if r.Client == nil {
		return errors.New("login throttle: redis client is nil")
	}
	if err := r.Client.Set(ctx, r.key(ipBlockedPrefix, ip), 1, d).Err(); err != nil {
		return fmt.Errorf("login throttle: block ip %q: %w", ip, err)
	}
	return nil
}

func (r *RedisLoginThrottle) del(ctx context.Context, op string, keys ...string) error {
	if r.Client == nil {
		return errors.New("login throttle: redis client is nil")
	}
	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("login throttle: %s: %w", op, err)
	}
	return nil
}

func (r *RedisLoginThrottle) Reset(ctx context.Context, username, ip string) error {
	return r.del(ctx, fmt.Sprintf("reset user=%q ip=%q", username, ip),
		r.key(userAttemptsPrefix, username),
		r.key(accountLockedPrefix, username),
		r.key(ipAttemptsPrefix, ip),
		r.key(ipBlockedPrefix, ip),
	)
}

func (r *RedisLoginThrottle) UnlockAccount(ctx context.Context, username string) error {
	return r.del(ctx, fmt.Sprintf("unlock account %q", username),
		r.key(userAttemptsPrefix, username),
		r.key(accountLockedPrefix, username),
	)
}

func (r *RedisLoginThrottle) ClearIP(ctx context.Context, ip string) error {
	return r.del(ctx, fmt.Sprintf("clear ip %q", ip),
		r.key(ipAttemptsPrefix, ip),
		r.key(ipBlockedPrefix, ip),
	)
}

// Walk the counter keys with SCAN and return their current values.
func (r *RedisLoginThrottle) FailureCounts(ctx context.Context) (_ map[string]int64, err error) {
	defer obs.Time(ctx, "login.throttle.FailureCounts")(&err)

	if r.Client == nil {
		return nil, errors.New("login throttle: redis client is nil")
	}

	out := map[string]int64{}
	for _, prefix := range []string{userAttemptsPrefix, ipAttemptsPrefix} {
		iter := r.Client.Scan(ctx, 0, r.Prefix+prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			v, err := r.Client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("login throttle: read %q: %w", key, err)
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("login throttle: parse %q: %w", key, err)
			}
			out[strings.TrimPrefix(key, r.Prefix)] = n
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("login throttle: scan %s keys: %w", strings.TrimSuffix(prefix, ":"), err)
		}
	}

	return out, nil
}
