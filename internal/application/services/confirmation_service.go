package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// ConfirmationService drives the account confirmation flow. Recoverable
// failures are data in the returned result; a Go error from any method is an
// infrastructure failure.
type ConfirmationService struct {
	repo     ports.AdminRepository
	sessions ports.SessionService
	adminCfg *config.AdminConfig
	logger   *logrus.Logger
}

func NewConfirmationService(repo ports.AdminRepository, sessions ports.SessionService, adminCfg *config.AdminConfig, logger *logrus.Logger) ports.ConfirmationService {
	return &ConfirmationService{
		repo:     repo,
		sessions: sessions,
		adminCfg: adminCfg,
		logger:   logger,
	}
}

// Digest returns the canonical lookup key for a raw confirmation token,
// scoped to the configured account kind.
func (s *ConfirmationService) Digest(rawToken string) string {
	return tokenDigest(s.adminCfg.TokenSecret, s.adminCfg.AccountKind, purposeConfirmation, rawToken)
}

// resolve converts a raw token into an account handle. A nil account with a
// nil error means the token matched nothing (recoverable).
func (s *ConfirmationService) resolve(ctx context.Context, rawToken string) (*admin.AdminUser, error) {
	if rawToken == "" {
		return nil, nil
	}
	account, err := s.repo.FindByConfirmationDigest(ctx, s.Digest(rawToken))
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve confirmation token: %w", err)
	}
	return account, nil
}

// tokenExpired reports whether the outstanding confirmation token has aged
// past the configured window. Confirmed accounts are exempt: a replayed token
// stays inert no matter how old it is.
func (s *ConfirmationService) tokenExpired(account *admin.AdminUser) bool {
	if account.IsConfirmed() || s.adminCfg.ConfirmationTTL <= 0 || account.ConfirmationSentAt == nil {
		return false
	}
	return time.Since(*account.ConfirmationSentAt) > s.adminCfg.ConfirmationTTL
}

// Preview handles the read-only entry point. It mutates the account only on
// the direct-confirm branch (unconfirmed account that already has a
// password).
func (s *ConfirmationService) Preview(ctx context.Context, rawToken string) (*admin.ConfirmationResult, error) {
	account, err := s.resolve(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return s.invalidTokenResult(), nil
	}
	if s.tokenExpired(account) {
		return s.expiredTokenResult(account), nil
	}
	if account.IsConfirmed() {
		// Token replay after confirmation is inert: no error, no state change.
		return &admin.ConfirmationResult{Outcome: admin.OutcomeAlreadyConfirmed, Account: account}, nil
	}

	if account.HasNoPassword() {
		// Prompt for a first-time password; the token rides along for the
		// committing submission. Nothing is staged or persisted here, so
		// repeated previews stay idempotent.
		return &admin.ConfirmationResult{
			Outcome: admin.OutcomePasswordRequired,
			Account: account,
			Token:   rawToken,
		}, nil
	}

	// Credentials already exist: confirm immediately, bypassing any form.
	return s.commit(ctx, account, nil)
}

// Confirm handles the committing entry point.
func (s *ConfirmationService) Confirm(ctx context.Context, rawToken, password, passwordConfirmation string) (*admin.ConfirmationResult, error) {
	account, err := s.resolve(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return s.invalidTokenResult(), nil
	}
	if s.tokenExpired(account) {
		return s.expiredTokenResult(account), nil
	}
	if account.IsConfirmed() {
		return &admin.ConfirmationResult{Outcome: admin.OutcomeAlreadyConfirmed, Account: account}, nil
	}

	if !account.HasNoPassword() {
		// Resetting an existing password through the confirmation flow is
		// not allowed; the reset flow owns that.
		return &admin.ConfirmationResult{
			Outcome: admin.OutcomePasswordAlreadySet,
			Account: account,
			Token:   rawToken,
			Errors:  admin.FieldErrors{{Field: admin.FieldEmail, Kind: admin.ErrKindPasswordAlreadySet}},
		}, nil
	}

	account.AttemptSetPassword(password, passwordConfirmation)
	errs := account.Validate()
	if errs.Empty() && !account.PasswordsMatch() {
		errs = append(errs, admin.FieldError{Field: admin.FieldPasswordConfirmation, Kind: admin.ErrKindMismatch})
	}
	if !errs.Empty() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).Debug("confirmation rejected: password validation failed")
		}
		return &admin.ConfirmationResult{
			Outcome: admin.OutcomeValidationFailed,
			Account: account,
			Token:   rawToken,
			Errors:  errs,
		}, nil
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(account.PendingPassword()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	digestStr := string(digest)
	return s.commit(ctx, account, &digestStr)
}

// commit performs the single committing operation: the conditional confirm
// update, then session establishment. A losing racer surfaces as
// already-confirmed, not as a double confirmation.
func (s *ConfirmationService) commit(ctx context.Context, account *admin.AdminUser, passwordDigest *string) (*admin.ConfirmationResult, error) {
	if account.ConfirmationTokenDigest == nil {
		return nil, fmt.Errorf("account %s has no confirmation token digest", account.ID)
	}

	now := time.Now()
	err := s.repo.Confirm(ctx, account.ID, *account.ConfirmationTokenDigest, passwordDigest, now)
	if err != nil {
		if errors.Is(err, admin.ErrAlreadyConfirmed) {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).Info("confirmation raced: account already confirmed")
			}
			return &admin.ConfirmationResult{Outcome: admin.OutcomeAlreadyConfirmed, Account: account}, nil
		}
		return nil, fmt.Errorf("failed to confirm account: %w", err)
	}

	account.ConfirmedAt = &now
	if passwordDigest != nil {
		account.PasswordDigest = passwordDigest
	}

	signIn, err := s.sessions.SignIn(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to establish session after confirmation: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"admin_id": account.ID, "email": account.Email}).Info("admin account confirmed")
	}

	return &admin.ConfirmationResult{
		Outcome: admin.OutcomeConfirmed,
		Account: account,
		SignIn:  signIn,
	}, nil
}

func (s *ConfirmationService) invalidTokenResult() *admin.ConfirmationResult {
	return &admin.ConfirmationResult{
		Outcome: admin.OutcomeInvalidToken,
		Errors:  admin.FieldErrors{{Field: admin.FieldConfirmationToken, Kind: admin.ErrKindInvalid}},
	}
}

// expiredTokenResult reports an aged-out token. The account is recoverable
// only through a fresh invitation link, so the outcome is the invalid-token
// one with a distinct error kind.
func (s *ConfirmationService) expiredTokenResult(account *admin.AdminUser) *admin.ConfirmationResult {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).Debug("confirmation rejected: token expired")
	}
	return &admin.ConfirmationResult{
		Outcome: admin.OutcomeInvalidToken,
		Errors:  admin.FieldErrors{{Field: admin.FieldConfirmationToken, Kind: admin.ErrKindExpired}},
	}
}
