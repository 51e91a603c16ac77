package ports

import (
	"context"
)

// EmailService defines the interface for outbound email operations
type EmailService interface {
	SendInvitationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}
