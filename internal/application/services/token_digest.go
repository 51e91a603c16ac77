package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Token purposes scoping digest derivation. Digests for one purpose are
// useless for another even when the raw token collides.
const (
	purposeConfirmation  = "confirmation_token"
	purposePasswordReset = "reset_password_token"
)

// tokenDigest derives the canonical lookup key for a raw token. The key is
// an HMAC-SHA256 over the raw token, keyed by a secret-derived key scoped to
// (account kind, purpose). Deterministic for a given token, one-way, and not
// transferable across kinds or purposes.
func tokenDigest(secret, accountKind, purpose, rawToken string) string {
	scope := hmac.New(sha256.New, []byte(secret))
	scope.Write([]byte(accountKind + "/" + purpose))
	mac := hmac.New(sha256.New, scope.Sum(nil))
	mac.Write([]byte(rawToken))
	return hex.EncodeToString(mac.Sum(nil))
}
