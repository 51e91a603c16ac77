package ports

import (
	"context"
	"time"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/domain/session"
)

// SessionService establishes and validates authenticated console sessions.
type SessionService interface {
	Login(ctx context.Context, req *session.LoginRequest) (*session.SignInResult, error)
	// SignIn establishes a session for an already-authenticated account
	// (the confirmation flow's bridge) and resolves the redirect target.
	SignIn(ctx context.Context, account *admin.AdminUser) (*session.SignInResult, error)
	// StartSession validates the token and refreshes session activity.
	StartSession(ctx context.Context, token, ipAddress, userAgent string) (*session.Claims, error)
	ValidateToken(ctx context.Context, token string) (*session.Claims, error)
	Logout(ctx context.Context, token string) error
	// RedirectTarget resolves the post-login path in two explicit tiers:
	// the configured root-path mapping, then a derived "/<namespace>" path.
	RedirectTarget() (string, session.RedirectSource)
	TokenHash(token string) string
}

// SessionTokenRepository defines storage for session claims keyed by token hash.
type SessionTokenRepository interface {
	StoreClaims(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error
	GetClaims(ctx context.Context, tokenHash string) (*session.Claims, error)
	// TouchActivity updates last-activity metadata without extending the TTL.
	TouchActivity(ctx context.Context, tokenHash, ipAddress, userAgent string) error
	DeleteClaims(ctx context.Context, tokenHash string) error
}
