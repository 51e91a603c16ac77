package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Tokens represents an issued session token
type Tokens struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Claims represents session JWT claims with embedded session metadata
type Claims struct {
	AdminID      uuid.UUID `json:"admin_id"`
	Email        string    `json:"email"`
	AccountKind  string    `json:"account_kind"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`

	jwt.RegisteredClaims
}

// RedirectSource reports which tier resolved the post-login redirect.
type RedirectSource string

const (
	// RedirectConfigured: the namespace had an entry in the configured
	// root-path mapping.
	RedirectConfigured RedirectSource = "configured"
	// RedirectDerived: no mapping entry existed and the path was derived
	// from the namespace segment. This is a best-effort guess and is not
	// guaranteed to match the host application's real route map.
	RedirectDerived RedirectSource = "derived"
)

// SignInResult carries the established session and where to send the client.
type SignInResult struct {
	Tokens         *Tokens        `json:"tokens"`
	RedirectTo     string         `json:"redirect_to"`
	RedirectSource RedirectSource `json:"redirect_source"`
}
