package ports

import (
	"context"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// ConfirmationService orchestrates the account confirmation flow: resolving
// a raw token to an account and driving the show/confirm state machine.
// Recoverable outcomes (unknown token, validation failures, already-set
// password) are reported in the result value; a non-nil error always means
// an infrastructure failure.
type ConfirmationService interface {
	// Digest returns the canonical lookup key for a raw confirmation token.
	// It is a pure function of the token, the configured account kind and
	// the confirmation purpose.
	Digest(rawToken string) string
	// Preview handles the read-only entry point (GET). It never mutates the
	// account except on the direct-confirm branch, where an unconfirmed
	// account that already has credentials is confirmed and signed in.
	Preview(ctx context.Context, rawToken string) (*admin.ConfirmationResult, error)
	// Confirm handles the committing entry point (PUT), staging and
	// validating the submitted password pair when the account has none.
	Confirm(ctx context.Context, rawToken, password, passwordConfirmation string) (*admin.ConfirmationResult, error)
}
