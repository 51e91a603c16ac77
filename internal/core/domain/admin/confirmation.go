package admin

import "github.com/opsboard/admin-console/internal/core/domain/session"

// ConfirmationOutcome names the terminal state of a confirmation attempt.
type ConfirmationOutcome string

const (
	// OutcomeInvalidToken: the token resolved to no account. Recoverable;
	// surfaced as a field error on the confirmation form.
	OutcomeInvalidToken ConfirmationOutcome = "invalid_token"
	// OutcomeAlreadyConfirmed: the account was confirmed earlier. Not an
	// error; the attempt is inert and carries no field errors.
	OutcomeAlreadyConfirmed ConfirmationOutcome = "already_confirmed"
	// OutcomePasswordRequired: preview of an unconfirmed account without
	// credentials. The caller should prompt for a first-time password,
	// carrying the token for the committing submission.
	OutcomePasswordRequired ConfirmationOutcome = "password_required"
	// OutcomeConfirmed: the account was confirmed and a session established.
	OutcomeConfirmed ConfirmationOutcome = "confirmed"
	// OutcomeValidationFailed: the staged password pair failed validation.
	OutcomeValidationFailed ConfirmationOutcome = "validation_failed"
	// OutcomePasswordAlreadySet: a committing submission tried to set a
	// password on an account that already has one.
	OutcomePasswordAlreadySet ConfirmationOutcome = "password_already_set"
)

// ConfirmationResult is the per-attempt result value produced by the
// confirmation flow. Each attempt composes its own result; there is no
// shared error bag mutated across branches.
type ConfirmationResult struct {
	Outcome ConfirmationOutcome
	Account *AdminUser
	// Token echoes the raw confirmation token back when a follow-up
	// submission needs to carry it (the password-required preview and
	// recoverable confirm failures).
	Token  string
	Errors FieldErrors
	// SignIn is set only when Outcome is OutcomeConfirmed.
	SignIn *session.SignInResult
}
