package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/domain/session"
)

// AdminRepositoryMock is a lightweight mock for AdminRepository
type AdminRepositoryMock struct {
	CreateFn                   func(ctx context.Context, a *admin.AdminUser) error
	GetByIDFn                  func(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error)
	GetByEmailFn               func(ctx context.Context, email string) (*admin.AdminUser, error)
	FindByConfirmationDigestFn func(ctx context.Context, digest string) (*admin.AdminUser, error)
	ConfirmFn                  func(ctx context.Context, id uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error
	SetConfirmationDigestFn    func(ctx context.Context, id uuid.UUID, digest string, sentAt time.Time) error
	UpdatePasswordFn           func(ctx context.Context, id uuid.UUID, passwordDigest string) error
	UpdateFn                   func(ctx context.Context, a *admin.AdminUser) error
}

func (m *AdminRepositoryMock) Create(ctx context.Context, a *admin.AdminUser) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *AdminRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, admin.ErrNotFound
}
func (m *AdminRepositoryMock) GetByEmail(ctx context.Context, email string) (*admin.AdminUser, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, admin.ErrNotFound
}
func (m *AdminRepositoryMock) FindByConfirmationDigest(ctx context.Context, digest string) (*admin.AdminUser, error) {
	if m.FindByConfirmationDigestFn != nil {
		return m.FindByConfirmationDigestFn(ctx, digest)
	}
	return nil, admin.ErrNotFound
}
func (m *AdminRepositoryMock) Confirm(ctx context.Context, id uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error {
	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, id, tokenDigest, passwordDigest, confirmedAt)
	}
	return nil
}
func (m *AdminRepositoryMock) SetConfirmationDigest(ctx context.Context, id uuid.UUID, digest string, sentAt time.Time) error {
	if m.SetConfirmationDigestFn != nil {
		return m.SetConfirmationDigestFn(ctx, id, digest, sentAt)
	}
	return nil
}
func (m *AdminRepositoryMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordDigest string) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, passwordDigest)
	}
	return nil
}
func (m *AdminRepositoryMock) Update(ctx context.Context, a *admin.AdminUser) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	return nil
}

// SessionTokenRepositoryMock is a lightweight mock for SessionTokenRepository
type SessionTokenRepositoryMock struct {
	StoreClaimsFn   func(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error
	GetClaimsFn     func(ctx context.Context, tokenHash string) (*session.Claims, error)
	TouchActivityFn func(ctx context.Context, tokenHash, ipAddress, userAgent string) error
	DeleteClaimsFn  func(ctx context.Context, tokenHash string) error
}

func (m *SessionTokenRepositoryMock) StoreClaims(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
	if m.StoreClaimsFn != nil {
		return m.StoreClaimsFn(ctx, tokenHash, claims, expiresAt)
	}
	return nil
}
func (m *SessionTokenRepositoryMock) GetClaims(ctx context.Context, tokenHash string) (*session.Claims, error) {
	if m.GetClaimsFn != nil {
		return m.GetClaimsFn(ctx, tokenHash)
	}
	return nil, fmt.Errorf("session not found or expired")
}
func (m *SessionTokenRepositoryMock) TouchActivity(ctx context.Context, tokenHash, ipAddress, userAgent string) error {
	if m.TouchActivityFn != nil {
		return m.TouchActivityFn(ctx, tokenHash, ipAddress, userAgent)
	}
	return nil
}
func (m *SessionTokenRepositoryMock) DeleteClaims(ctx context.Context, tokenHash string) error {
	if m.DeleteClaimsFn != nil {
		return m.DeleteClaimsFn(ctx, tokenHash)
	}
	return nil
}

// ResetTokenRepositoryMock is a lightweight mock for ResetTokenRepository
type ResetTokenRepositoryMock struct {
	StoreFn   func(ctx context.Context, digest string, token *admin.ResetToken, ttl time.Duration) error
	GetFn     func(ctx context.Context, digest string) (*admin.ResetToken, error)
	ConsumeFn func(ctx context.Context, digest string) error
}

func (m *ResetTokenRepositoryMock) Store(ctx context.Context, digest string, token *admin.ResetToken, ttl time.Duration) error {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, digest, token, ttl)
	}
	return nil
}
func (m *ResetTokenRepositoryMock) Get(ctx context.Context, digest string) (*admin.ResetToken, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, digest)
	}
	return nil, admin.ErrNotFound
}
func (m *ResetTokenRepositoryMock) Consume(ctx context.Context, digest string) error {
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, digest)
	}
	return nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendInvitationEmailFn    func(ctx context.Context, email, token string) error
	SendPasswordResetEmailFn func(ctx context.Context, email, token string) error
}

func (m *EmailServiceMock) SendInvitationEmail(ctx context.Context, email, token string) error {
	if m.SendInvitationEmailFn != nil {
		return m.SendInvitationEmailFn(ctx, email, token)
	}
	return nil
}
func (m *EmailServiceMock) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	if m.SendPasswordResetEmailFn != nil {
		return m.SendPasswordResetEmailFn(ctx, email, token)
	}
	return nil
}

// SessionServiceMock is a lightweight mock for SessionService
type SessionServiceMock struct {
	LoginFn          func(ctx context.Context, req *session.LoginRequest) (*session.SignInResult, error)
	SignInFn         func(ctx context.Context, account *admin.AdminUser) (*session.SignInResult, error)
	StartSessionFn   func(ctx context.Context, token, ipAddress, userAgent string) (*session.Claims, error)
	ValidateTokenFn  func(ctx context.Context, token string) (*session.Claims, error)
	LogoutFn         func(ctx context.Context, token string) error
	RedirectTargetFn func() (string, session.RedirectSource)
	TokenHashFn      func(token string) string
}

func (m *SessionServiceMock) Login(ctx context.Context, req *session.LoginRequest) (*session.SignInResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *SessionServiceMock) SignIn(ctx context.Context, account *admin.AdminUser) (*session.SignInResult, error) {
	if m.SignInFn != nil {
		return m.SignInFn(ctx, account)
	}
	return &session.SignInResult{
		Tokens:         &session.Tokens{Token: "mock-token", ExpiresIn: 3600},
		RedirectTo:     "/admin",
		RedirectSource: session.RedirectDerived,
	}, nil
}
func (m *SessionServiceMock) StartSession(ctx context.Context, token, ipAddress, userAgent string) (*session.Claims, error) {
	if m.StartSessionFn != nil {
		return m.StartSessionFn(ctx, token, ipAddress, userAgent)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *SessionServiceMock) ValidateToken(ctx context.Context, token string) (*session.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *SessionServiceMock) Logout(ctx context.Context, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, token)
	}
	return nil
}
func (m *SessionServiceMock) RedirectTarget() (string, session.RedirectSource) {
	if m.RedirectTargetFn != nil {
		return m.RedirectTargetFn()
	}
	return "/admin", session.RedirectDerived
}
func (m *SessionServiceMock) TokenHash(token string) string {
	if m.TokenHashFn != nil {
		return m.TokenHashFn(token)
	}
	return "mock-hash"
}

// ConfirmationServiceMock is a lightweight mock for ConfirmationService
type ConfirmationServiceMock struct {
	DigestFn  func(rawToken string) string
	PreviewFn func(ctx context.Context, rawToken string) (*admin.ConfirmationResult, error)
	ConfirmFn func(ctx context.Context, rawToken, password, passwordConfirmation string) (*admin.ConfirmationResult, error)
}

func (m *ConfirmationServiceMock) Digest(rawToken string) string {
	if m.DigestFn != nil {
		return m.DigestFn(rawToken)
	}
	return "mock-digest"
}
func (m *ConfirmationServiceMock) Preview(ctx context.Context, rawToken string) (*admin.ConfirmationResult, error) {
	if m.PreviewFn != nil {
		return m.PreviewFn(ctx, rawToken)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ConfirmationServiceMock) Confirm(ctx context.Context, rawToken, password, passwordConfirmation string) (*admin.ConfirmationResult, error) {
	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, rawToken, password, passwordConfirmation)
	}
	return nil, fmt.Errorf("not implemented")
}

// AdminServiceMock is a lightweight mock for AdminService
type AdminServiceMock struct {
	InviteAdminFn          func(ctx context.Context, req *admin.InviteAdminRequest) (*admin.AdminUser, error)
	ResendConfirmationFn   func(ctx context.Context, id uuid.UUID) error
	GetAdminFn             func(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error)
	RequestPasswordResetFn func(ctx context.Context, email string) error
	ResetPasswordFn        func(ctx context.Context, rawToken, password, confirmation string) (*admin.PasswordResetResult, error)
}

func (m *AdminServiceMock) InviteAdmin(ctx context.Context, req *admin.InviteAdminRequest) (*admin.AdminUser, error) {
	if m.InviteAdminFn != nil {
		return m.InviteAdminFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AdminServiceMock) ResendConfirmation(ctx context.Context, id uuid.UUID) error {
	if m.ResendConfirmationFn != nil {
		return m.ResendConfirmationFn(ctx, id)
	}
	return nil
}
func (m *AdminServiceMock) GetAdmin(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
	if m.GetAdminFn != nil {
		return m.GetAdminFn(ctx, id)
	}
	return nil, admin.ErrNotFound
}
func (m *AdminServiceMock) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFn != nil {
		return m.RequestPasswordResetFn(ctx, email)
	}
	return nil
}
func (m *AdminServiceMock) ResetPassword(ctx context.Context, rawToken, password, confirmation string) (*admin.PasswordResetResult, error) {
	if m.ResetPasswordFn != nil {
		return m.ResetPasswordFn(ctx, rawToken, password, confirmation)
	}
	return nil, fmt.Errorf("not implemented")
}

// CacheMock is an in-memory Cache implementation for tests. TTLs are ignored.
type CacheMock struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewCacheMock() *CacheMock {
	return &CacheMock{items: make(map[string][]byte)}
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[key]
	return b, ok, nil
}

func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *CacheMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, key, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}
