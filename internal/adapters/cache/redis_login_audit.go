package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"waste-collection-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisLoginAuditLog keeps a capped list of recent login attempts.
// The whole list expires Retention after the last append.
type RedisLoginAuditLog struct {
	Client    redis.UniversalClient
	Key       string
	Capacity  int64
	Retention time.Duration
}

func NewRedisLoginAuditLog(client redis.UniversalClient) *RedisLoginAuditLog {
	return &RedisLoginAuditLog{
		Client:    client,
		Key:       "recent_logins",
		Capacity:  100,
		Retention: 24 * time.Hour,
	}
}

func (r *RedisLoginAuditLog) Append(ctx context.Context, a domain.LoginAttempt) error {
	if r.Client == nil {
		return errors.New("login audit: redis client is nil")
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("login audit: encode attempt: %w", err)
	}

	_, err = r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, r.Key, payload)
		p.LTrim(ctx, r.Key, 0, r.Capacity-1)
		p.Expire(ctx, r.Key, r.Retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login audit: append: %w", err)
	}
	return nil
}

func (r *RedisLoginAuditLog) Recent(ctx context.Context, n int) ([]domain.LoginAttempt, error) {
	if r.Client == nil {
		return nil, errors.New("login audit: redis client is nil")
	}
	if n <= 0 {
		return []domain.LoginAttempt{}, nil
	}

	raw, err := r.Client.LRange(ctx, r.Key, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("login audit: read recent: %w", err)
	}

	out := make([]domain.LoginAttempt, 0, len(raw))
	for i, item := range raw {
		var a domain.LoginAttempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("login audit: decode entry #%d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}
