package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/opsboard/admin-console/internal/core/domain/session"
	"github.com/opsboard/admin-console/internal/core/ports"
)

const (
	sessionPrefix = "console_sessions"
)

// SessionRedisRepository stores session claims in Redis keyed by token hash.
// The Redis record is what makes a session revocable: deleting it ends the
// session even while the signed token itself is still within its TTL.
type SessionRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

// NewSessionRedisRepository creates a new Redis session repository
func NewSessionRedisRepository(client redis.Cmdable, logger *logrus.Logger) ports.SessionTokenRepository {
	return &SessionRedisRepository{client: client, logger: logger}
}

func (r *SessionRedisRepository) key(tokenHash string) string {
	return fmt.Sprintf("%s:token:%s", sessionPrefix, tokenHash)
}

// StoreClaims stores session claims in Redis with TTL derived from expiresAt
func (r *SessionRedisRepository) StoreClaims(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal session claims: %w", err)
	}
	if err = r.client.Set(ctx, r.key(tokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session claims in Redis: %w", err)
	}
	return nil
}

// GetClaims retrieves session claims from Redis
func (r *SessionRedisRepository) GetClaims(ctx context.Context, tokenHash string) (*session.Claims, error) {
	data, err := r.client.Get(ctx, r.key(tokenHash)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session not found or expired")
		}
		return nil, fmt.Errorf("failed to get session claims from Redis: %w", err)
	}
	var claims session.Claims
	if err = json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session claims: %w", err)
	}
	return &claims, nil
}

// TouchActivity updates the last activity timestamp and request metadata for a
// session without extending its TTL.
func (r *SessionRedisRepository) TouchActivity(ctx context.Context, tokenHash, ipAddress, userAgent string) error {
	key := r.key(tokenHash)
	claims, err := r.GetClaims(ctx, tokenHash)
	if err != nil {
		return err
	}
	claims.LastActivity = time.Now()
	if ipAddress != "" {
		claims.IPAddress = ipAddress
	}
	if userAgent != "" {
		claims.UserAgent = userAgent
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get session TTL: %w", err)
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal updated claims: %w", err)
	}
	if err = r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update session claims: %w", err)
	}
	return nil
}

// DeleteClaims removes session claims from Redis. A missing session is not an
// error; logout is idempotent.
func (r *SessionRedisRepository) DeleteClaims(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, r.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("failed to delete session claims: %w", err)
	}
	return nil
}
