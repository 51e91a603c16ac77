package admin

import (
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// AdminUser is a confirmable console account. An account is created by
// invitation without credentials; it becomes usable once the confirmation
// token delivered out-of-band has been redeemed. Confirmation is a one-way
// transition guarded at the storage layer.
type AdminUser struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Email string    `json:"email" db:"email"`
	// PasswordDigest is nil while no password has been set. The first-time
	// password may only be set as part of confirming.
	PasswordDigest *string `json:"-" db:"password_digest"`
	// ConfirmationTokenDigest is the keyed digest of the outstanding
	// confirmation token. The raw token is never stored.
	ConfirmationTokenDigest *string    `json:"-" db:"confirmation_token_digest"`
	ConfirmationSentAt      *time.Time `json:"confirmation_sent_at" db:"confirmation_sent_at"`
	ConfirmedAt             *time.Time `json:"confirmed_at" db:"confirmed_at"`
	ResetPasswordSentAt     *time.Time `json:"-" db:"reset_password_sent_at"`
	LastLoginAt             *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`

	// Staged password pair for a confirm-with-password attempt. Request-local,
	// never serialized, never persisted unless validation succeeds.
	pendingPassword             string
	pendingPasswordConfirmation string
	pendingStaged               bool
}

func (a *AdminUser) IsConfirmed() bool { return a.ConfirmedAt != nil }

// HasNoPassword reports whether the account has never had credentials set.
func (a *AdminUser) HasNoPassword() bool {
	return a.PasswordDigest == nil || *a.PasswordDigest == ""
}

// AttemptSetPassword stages a submitted password pair. Nothing is persisted;
// the staged value only survives until the enclosing attempt finishes.
func (a *AdminUser) AttemptSetPassword(password, confirmation string) {
	a.pendingPassword = password
	a.pendingPasswordConfirmation = confirmation
	a.pendingStaged = true
}

// PendingPassword returns the staged password. Only meaningful after
// AttemptSetPassword and a successful Validate.
func (a *AdminUser) PendingPassword() string { return a.pendingPassword }

// PasswordsMatch reports whether the staged pair agrees and is non-empty.
func (a *AdminUser) PasswordsMatch() bool {
	return a.pendingStaged && a.pendingPassword != "" && a.pendingPassword == a.pendingPasswordConfirmation
}

var specialCharRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>\[\]\\/_\-+=~` + "`" + `';]`)

const minPasswordLength = 12

// Validate runs field validations over the staged password pair and returns
// the failures in submission order. It never mutates persisted state.
func (a *AdminUser) Validate() FieldErrors {
	var errs FieldErrors

	if !a.pendingStaged || a.pendingPassword == "" {
		errs = errs.add(FieldPassword, ErrKindBlank)
		return errs
	}

	if len(a.pendingPassword) < minPasswordLength {
		errs = errs.add(FieldPassword, ErrKindTooShort)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range a.pendingPassword {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = errs.add(FieldPassword, ErrKindMissingUppercase)
	}
	if !hasLower {
		errs = errs.add(FieldPassword, ErrKindMissingLowercase)
	}
	if !hasDigit {
		errs = errs.add(FieldPassword, ErrKindMissingDigit)
	}
	if !specialCharRegex.MatchString(a.pendingPassword) {
		errs = errs.add(FieldPassword, ErrKindMissingSpecialChar)
	}

	return errs
}

// InviteAdminRequest represents the request to invite a new admin
type InviteAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordResetRequest represents the request to start a password reset
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetToken is the ephemeral record behind an outstanding password-reset
// token. It is stored keyed by the token's digest, never by the raw token.
type ResetToken struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordResetResult is the per-attempt outcome of a password reset.
type PasswordResetResult struct {
	Account *AdminUser  `json:"-"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

func (r *PasswordResetResult) OK() bool { return r.Errors.Empty() }
