package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// AdminRepository defines the interface for admin account storage.
// Not-found lookups return admin.ErrNotFound; any other error is an
// infrastructure failure.
type AdminRepository interface {
	Create(ctx context.Context, account *admin.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*admin.AdminUser, error)
	// FindByConfirmationDigest looks up the single account whose stored
	// confirmation token digest equals digest, regardless of confirmation
	// state. The digest column survives confirmation so that replayed
	// tokens resolve to an already-confirmed account instead of erroring.
	FindByConfirmationDigest(ctx context.Context, digest string) (*admin.AdminUser, error)
	// Confirm commits the confirm transition as a single conditional update
	// keyed on the unconfirmed state: it sets confirmed_at and, when
	// passwordDigest is non-nil, the first-time credential. When the account
	// was already confirmed (including by a concurrent attempt holding the
	// same token) it returns admin.ErrAlreadyConfirmed and changes nothing.
	Confirm(ctx context.Context, id uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error
	// SetConfirmationDigest replaces the outstanding confirmation token
	// digest on an unconfirmed account (invitation and resend).
	SetConfirmationDigest(ctx context.Context, id uuid.UUID, digest string, sentAt time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordDigest string) error
	Update(ctx context.Context, account *admin.AdminUser) error
}

// AdminService defines the invitation and password-reset business logic.
type AdminService interface {
	InviteAdmin(ctx context.Context, req *admin.InviteAdminRequest) (*admin.AdminUser, error)
	ResendConfirmation(ctx context.Context, id uuid.UUID) error
	GetAdmin(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error)

	// RequestPasswordReset is intentionally silent about unknown emails.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, password, confirmation string) (*admin.PasswordResetResult, error)
}
