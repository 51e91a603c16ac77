package ports

import (
	"context"
	"time"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// ResetTokenRepository handles ephemeral password-reset tokens, stored keyed
// by token digest. Implementations may use Redis or another ephemeral store.
type ResetTokenRepository interface {
	Store(ctx context.Context, digest string, token *admin.ResetToken, ttl time.Duration) error
	Get(ctx context.Context, digest string) (*admin.ResetToken, error)
	// Consume removes the token; a missing token is reported as admin.ErrNotFound.
	Consume(ctx context.Context, digest string) error
}
