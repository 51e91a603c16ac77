package admin

import "errors"

// Sentinel errors returned by repositories. Everything else coming out of a
// repository is an infrastructure failure and propagates to the caller.
var (
	ErrNotFound         = errors.New("admin user not found")
	ErrAlreadyConfirmed = errors.New("admin user already confirmed")
	ErrEmailTaken       = errors.New("email already taken")
)

// Field names used in field-level errors.
const (
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldConfirmationToken    = "confirmation_token"
	FieldResetToken           = "reset_password_token"
)

// Error kinds attached to fields. Kinds are stable identifiers; rendering
// them as user-facing text is the caller's concern.
const (
	ErrKindInvalid            = "invalid"
	ErrKindExpired            = "expired"
	ErrKindBlank              = "blank"
	ErrKindTooShort           = "too_short"
	ErrKindMissingUppercase   = "missing_uppercase"
	ErrKindMissingLowercase   = "missing_lowercase"
	ErrKindMissingDigit       = "missing_digit"
	ErrKindMissingSpecialChar = "missing_special_char"
	ErrKindMismatch           = "confirmation_mismatch"
	ErrKindPasswordAlreadySet = "password_already_set"
)

// FieldError is a single recoverable validation failure attached to a field.
type FieldError struct {
	Field string `json:"field"`
	Kind  string `json:"error"`
}

// FieldErrors is an ordered collection of field errors. A nil or empty slice
// means the attempt succeeded. Each attempt produces its own slice; nothing
// is cleared or reused across requests.
type FieldErrors []FieldError

func (e FieldErrors) Empty() bool { return len(e) == 0 }

// On reports whether an error of the given kind is attached to field.
func (e FieldErrors) On(field, kind string) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Kind == kind {
			return true
		}
	}
	return false
}

func (e FieldErrors) add(field, kind string) FieldErrors {
	return append(e, FieldError{Field: field, Kind: kind})
}
