package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// AdminService owns the invitation and password-reset flows around the
// confirmable account lifecycle.
type AdminService struct {
	repo         ports.AdminRepository
	resetRepo    ports.ResetTokenRepository
	emailService ports.EmailService
	adminCfg     *config.AdminConfig
	logger       *logrus.Logger
}

func NewAdminService(repo ports.AdminRepository, resetRepo ports.ResetTokenRepository, emailService ports.EmailService, adminCfg *config.AdminConfig, logger *logrus.Logger) ports.AdminService {
	return &AdminService{
		repo:         repo,
		resetRepo:    resetRepo,
		emailService: emailService,
		adminCfg:     adminCfg,
		logger:       logger,
	}
}

// generateToken generates a secure random out-of-band token
func (s *AdminService) generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AdminService) confirmationDigest(rawToken string) string {
	return tokenDigest(s.adminCfg.TokenSecret, s.adminCfg.AccountKind, purposeConfirmation, rawToken)
}

func (s *AdminService) resetDigest(rawToken string) string {
	return tokenDigest(s.adminCfg.TokenSecret, s.adminCfg.AccountKind, purposePasswordReset, rawToken)
}

// InviteAdmin creates an unconfirmed account without credentials and emails
// its confirmation link. Only the token's digest is stored.
func (s *AdminService) InviteAdmin(ctx context.Context, req *admin.InviteAdminRequest) (*admin.AdminUser, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, admin.ErrEmailTaken
	} else if err != nil && !errors.Is(err, admin.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	rawToken, err := s.generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	now := time.Now()
	digest := s.confirmationDigest(rawToken)
	account := &admin.AdminUser{
		ID:                      uuid.New(),
		Email:                   req.Email,
		ConfirmationTokenDigest: &digest,
		ConfirmationSentAt:      &now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	if err := s.emailService.SendInvitationEmail(ctx, account.Email, rawToken); err != nil {
		// Log error but don't fail the invitation; the link can be resent
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": account.ID, "email": account.Email}).WithError(err).Warn("failed to send invitation email")
		}
	}

	return account, nil
}

// ResendConfirmation rotates the outstanding confirmation token and emails a
// fresh link. The previous token stops resolving.
func (s *AdminService) ResendConfirmation(ctx context.Context, id uuid.UUID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.IsConfirmed() {
		return admin.ErrAlreadyConfirmed
	}

	rawToken, err := s.generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	now := time.Now()
	if err := s.repo.SetConfirmationDigest(ctx, account.ID, s.confirmationDigest(rawToken), now); err != nil {
		return fmt.Errorf("failed to rotate confirmation token: %w", err)
	}

	if err := s.emailService.SendInvitationEmail(ctx, account.Email, rawToken); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	return nil
}

func (s *AdminService) GetAdmin(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

// RequestPasswordReset stores a reset token digest with TTL and emails the
// raw token. Unknown emails succeed silently so the endpoint does not leak
// which accounts exist.
func (s *AdminService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"email": email}).Debug("password reset requested for unknown email")
			}
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	rawToken, err := s.generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := time.Now()
	token := &admin.ResetToken{AdminID: account.ID, Email: account.Email, CreatedAt: now}
	if err := s.resetRepo.Store(ctx, s.resetDigest(rawToken), token, s.adminCfg.ResetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	account.ResetPasswordSentAt = &now
	account.UpdatedAt = now
	if err := s.repo.Update(ctx, account); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).WithError(err).Warn("failed to record reset request time")
		}
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, account.Email, rawToken); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// ResetPassword redeems a reset token and replaces the account's credential.
// Validation failures come back as field errors in the result.
func (s *AdminService) ResetPassword(ctx context.Context, rawToken, password, confirmation string) (*admin.PasswordResetResult, error) {
	digest := s.resetDigest(rawToken)
	token, err := s.resetRepo.Get(ctx, digest)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return &admin.PasswordResetResult{
				Errors: admin.FieldErrors{{Field: admin.FieldResetToken, Kind: admin.ErrKindInvalid}},
			}, nil
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	account, err := s.repo.GetByID(ctx, token.AdminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for reset token: %w", err)
	}

	account.AttemptSetPassword(password, confirmation)
	errs := account.Validate()
	if errs.Empty() && !account.PasswordsMatch() {
		errs = append(errs, admin.FieldError{Field: admin.FieldPasswordConfirmation, Kind: admin.ErrKindMismatch})
	}
	if !errs.Empty() {
		return &admin.PasswordResetResult{Account: account, Errors: errs}, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(account.PendingPassword()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, account.ID, string(hashed)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resetRepo.Consume(ctx, digest); err != nil && !errors.Is(err, admin.ErrNotFound) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).WithError(err).Warn("failed to consume reset token")
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).Info("admin password reset")
	}

	hashedStr := string(hashed)
	account.PasswordDigest = &hashedStr
	return &admin.PasswordResetResult{Account: account}, nil
}
