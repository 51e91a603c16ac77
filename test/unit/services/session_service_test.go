package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	config "github.com/opsboard/admin-console/configs"
	impl "github.com/opsboard/admin-console/internal/application/services"
	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/domain/session"
	tmocks "github.com/opsboard/admin-console/test/mocks"
)

func sessionCfg() *config.SessionConfig {
	return &config.SessionConfig{Secret: "session-secret", TokenTTL: time.Hour, SessionTimeout: 2 * time.Hour}
}

func sessionAdminCfg() *config.AdminConfig {
	return &config.AdminConfig{AccountKind: "admin_user", Namespace: "admin", RootPaths: map[string]string{}}
}

func confirmedAccount(t *testing.T, email, password string) *admin.AdminUser {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashedStr := string(hashed)
	confirmedAt := time.Now().Add(-time.Hour)
	return &admin.AdminUser{
		ID:             uuid.New(),
		Email:          email,
		PasswordDigest: &hashedStr,
		ConfirmedAt:    &confirmedAt,
	}
}

// Test: Login success stores claims keyed by the token's sha256 hash
func TestLogin_Success_StoresClaimsByTokenHash(t *testing.T) {
	account := confirmedAccount(t, "a@corp.io", "pass")

	var storedHash string
	var storedClaims *session.Claims
	var updated *admin.AdminUser

	adminRepo := &tmocks.AdminRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) { return account, nil },
		UpdateFn:     func(ctx context.Context, a *admin.AdminUser) error { updated = a; return nil },
	}
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		StoreClaimsFn: func(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
			storedHash = tokenHash
			storedClaims = claims
			return nil
		},
	}
	svc := impl.NewSessionService(adminRepo, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	result, err := svc.Login(context.Background(), &session.LoginRequest{Email: "a@corp.io", Password: "pass"})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Tokens.Token)

	sum := sha256.Sum256([]byte(result.Tokens.Token))
	require.Equal(t, hex.EncodeToString(sum[:]), storedHash)
	require.Equal(t, account.ID, storedClaims.AdminID)
	require.Equal(t, "admin_user", storedClaims.AccountKind)

	// last login time is recorded best-effort
	require.NotNil(t, updated)
	require.NotNil(t, updated.LastLoginAt)
}

// Test: unknown email, wrong password and missing credentials all collapse
// into the same invalid-credentials error
func TestLogin_InvalidCredentials(t *testing.T) {
	account := confirmedAccount(t, "a@corp.io", "pass")
	noPassword := &admin.AdminUser{ID: uuid.New(), Email: "b@corp.io", ConfirmedAt: account.ConfirmedAt}

	adminRepo := &tmocks.AdminRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) {
			switch email {
			case "a@corp.io":
				return account, nil
			case "b@corp.io":
				return noPassword, nil
			}
			return nil, admin.ErrNotFound
		},
	}
	svc := impl.NewSessionService(adminRepo, &tmocks.SessionTokenRepositoryMock{}, sessionCfg(), sessionAdminCfg(), nil)

	cases := []session.LoginRequest{
		{Email: "nobody@corp.io", Password: "pass"},
		{Email: "a@corp.io", Password: "wrong"},
		{Email: "b@corp.io", Password: "pass"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), &req)
		require.ErrorIs(t, err, impl.ErrInvalidCredentials)
	}
}

// Test: a valid credential on an unconfirmed account is rejected distinctly
func TestLogin_UnconfirmedAccount(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	hashedStr := string(hashed)
	account := &admin.AdminUser{ID: uuid.New(), Email: "a@corp.io", PasswordDigest: &hashedStr}

	adminRepo := &tmocks.AdminRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) { return account, nil },
	}
	svc := impl.NewSessionService(adminRepo, &tmocks.SessionTokenRepositoryMock{}, sessionCfg(), sessionAdminCfg(), nil)

	_, err := svc.Login(context.Background(), &session.LoginRequest{Email: "a@corp.io", Password: "pass"})
	require.ErrorIs(t, err, impl.ErrUnconfirmedAccount)
}

// Test: a configured root-path mapping wins over the derived namespace path,
// and the relative URL root prefixes both tiers
func TestRedirectTarget_ConfiguredAndDerived(t *testing.T) {
	configured := &config.AdminConfig{
		AccountKind:     "admin_user",
		Namespace:       "admin",
		RootPaths:       map[string]string{"admin": "/admin/dashboard"},
		RelativeURLRoot: "/console",
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, &tmocks.SessionTokenRepositoryMock{}, sessionCfg(), configured, nil)
	path, source := svc.RedirectTarget()
	require.Equal(t, "/console/admin/dashboard", path)
	require.Equal(t, session.RedirectConfigured, source)

	derived := &config.AdminConfig{
		AccountKind:     "admin_user",
		Namespace:       "ops",
		RootPaths:       map[string]string{},
		RelativeURLRoot: "/console",
	}
	svc = impl.NewSessionService(&tmocks.AdminRepositoryMock{}, &tmocks.SessionTokenRepositoryMock{}, sessionCfg(), derived, nil)
	path, source = svc.RedirectTarget()
	require.Equal(t, "/console/ops", path)
	require.Equal(t, session.RedirectDerived, source)
}

// Test: the server-side record is authoritative; a deleted record invalidates
// a structurally valid token
func TestValidateToken_RequiresServerSideRecord(t *testing.T) {
	account := confirmedAccount(t, "a@corp.io", "pass")

	store := map[string]*session.Claims{}
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		StoreClaimsFn: func(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
			store[tokenHash] = claims
			return nil
		},
		GetClaimsFn: func(ctx context.Context, tokenHash string) (*session.Claims, error) {
			if claims, ok := store[tokenHash]; ok {
				return claims, nil
			}
			return nil, fmt.Errorf("session not found or expired")
		},
		DeleteClaimsFn: func(ctx context.Context, tokenHash string) error {
			delete(store, tokenHash)
			return nil
		},
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	result, err := svc.SignIn(context.Background(), account)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), result.Tokens.Token)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AdminID)

	// logout revokes: the JWT is still within TTL but the record is gone
	require.NoError(t, svc.Logout(context.Background(), result.Tokens.Token))
	_, err = svc.ValidateToken(context.Background(), result.Tokens.Token)
	require.Error(t, err)
}

// Test: a session stored for a different account kind does not validate
func TestValidateToken_RejectsForeignAccountKind(t *testing.T) {
	account := confirmedAccount(t, "a@corp.io", "pass")

	store := map[string]*session.Claims{}
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		StoreClaimsFn: func(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
			stored := *claims
			stored.AccountKind = "operator"
			store[tokenHash] = &stored
			return nil
		},
		GetClaimsFn: func(ctx context.Context, tokenHash string) (*session.Claims, error) {
			if claims, ok := store[tokenHash]; ok {
				return claims, nil
			}
			return nil, fmt.Errorf("session not found or expired")
		},
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	result, err := svc.SignIn(context.Background(), account)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), result.Tokens.Token)
	require.Error(t, err)
}

// Test: a tampered token signature never reaches the session store
func TestValidateToken_RejectsBadSignature(t *testing.T) {
	lookups := 0
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		GetClaimsFn: func(ctx context.Context, tokenHash string) (*session.Claims, error) {
			lookups++
			return nil, fmt.Errorf("session not found or expired")
		},
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	otherCfg := &config.SessionConfig{Secret: "other-secret", TokenTTL: time.Hour, SessionTimeout: 2 * time.Hour}
	other := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, &tmocks.SessionTokenRepositoryMock{}, otherCfg, sessionAdminCfg(), nil)
	result, err := other.SignIn(context.Background(), confirmedAccount(t, "a@corp.io", "pass"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), result.Tokens.Token)
	require.Error(t, err)
	require.Equal(t, 0, lookups)
}

// Test: starting a session touches the activity record with caller metadata
func TestStartSession_TouchesActivity(t *testing.T) {
	account := confirmedAccount(t, "a@corp.io", "pass")

	store := map[string]*session.Claims{}
	var touchedHash, touchedIP, touchedUA string
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		StoreClaimsFn: func(ctx context.Context, tokenHash string, claims *session.Claims, expiresAt time.Time) error {
			store[tokenHash] = claims
			return nil
		},
		GetClaimsFn: func(ctx context.Context, tokenHash string) (*session.Claims, error) {
			if claims, ok := store[tokenHash]; ok {
				return claims, nil
			}
			return nil, fmt.Errorf("session not found or expired")
		},
		TouchActivityFn: func(ctx context.Context, tokenHash, ipAddress, userAgent string) error {
			touchedHash = tokenHash
			touchedIP = ipAddress
			touchedUA = userAgent
			return nil
		},
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	result, err := svc.SignIn(context.Background(), account)
	require.NoError(t, err)

	claims, err := svc.StartSession(context.Background(), result.Tokens.Token, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AdminID)
	require.Equal(t, svc.TokenHash(result.Tokens.Token), touchedHash)
	require.Equal(t, "10.0.0.1", touchedIP)
	require.Equal(t, "go-test", touchedUA)
}

// Test: Logout deletes the claims record keyed by token hash
func TestLogout_DeletesClaims(t *testing.T) {
	var deletedHash string
	sessionRepo := &tmocks.SessionTokenRepositoryMock{
		DeleteClaimsFn: func(ctx context.Context, tokenHash string) error { deletedHash = tokenHash; return nil },
	}
	svc := impl.NewSessionService(&tmocks.AdminRepositoryMock{}, sessionRepo, sessionCfg(), sessionAdminCfg(), nil)

	require.NoError(t, svc.Logout(context.Background(), "sometoken"))
	sum := sha256.Sum256([]byte("sometoken"))
	require.Equal(t, hex.EncodeToString(sum[:]), deletedHash)
}
