package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/ports"
)

const (
	// resetTokenPrefix prefixes Redis keys for password reset tokens.
	// It's a static prefix and not a credential; silence gosec G101 here.
	resetTokenPrefix = "console:reset_token" //nolint:gosec
)

// ResetTokenRedisRepository stores password-reset token records keyed by the
// token's digest. The raw token never reaches Redis.
type ResetTokenRedisRepository struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewResetTokenRedisRepository(redisClient *redis.Client, logger *logrus.Logger) ports.ResetTokenRepository {
	return &ResetTokenRedisRepository{redisClient: redisClient, logger: logger}
}

func (r *ResetTokenRedisRepository) key(digest string) string {
	return fmt.Sprintf("%s:%s", resetTokenPrefix, digest)
}

func (r *ResetTokenRedisRepository) Store(ctx context.Context, digest string, token *admin.ResetToken, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("reset token TTL must be positive")
	}
	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal reset token: %w", err)
	}
	if err := r.redisClient.Set(ctx, r.key(digest), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token in redis: %w", err)
	}
	return nil
}

func (r *ResetTokenRedisRepository) Get(ctx context.Context, digest string) (*admin.ResetToken, error) {
	b, err := r.redisClient.Get(ctx, r.key(digest)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, admin.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reset token from redis: %w", err)
	}

	var t admin.ResetToken
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reset token: %w", err)
	}

	return &t, nil
}

// Consume removes the token so it cannot be redeemed twice.
func (r *ResetTokenRedisRepository) Consume(ctx context.Context, digest string) error {
	deleted, err := r.redisClient.Del(ctx, r.key(digest)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	if deleted == 0 {
		return admin.ErrNotFound
	}
	return nil
}
