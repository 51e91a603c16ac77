package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/domain/session"
	"github.com/opsboard/admin-console/internal/core/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnconfirmedAccount = errors.New("account is not confirmed")
)

// SessionService issues and validates console sessions, and bridges a
// successful confirmation into an authenticated session plus redirect.
type SessionService struct {
	adminRepo   ports.AdminRepository
	sessionRepo ports.SessionTokenRepository
	sessionCfg  *config.SessionConfig
	adminCfg    *config.AdminConfig
	logger      *logrus.Logger
}

func NewSessionService(adminRepo ports.AdminRepository, sessionRepo ports.SessionTokenRepository, sessionCfg *config.SessionConfig, adminCfg *config.AdminConfig, logger *logrus.Logger) ports.SessionService {
	return &SessionService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		sessionCfg:  sessionCfg,
		adminCfg:    adminCfg,
		logger:      logger,
	}
}

func (s *SessionService) TokenHash(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (s *SessionService) Login(ctx context.Context, req *session.LoginRequest) (*session.SignInResult, error) {
	account, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if account.HasNoPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordDigest), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsConfirmed() {
		return nil, ErrUnconfirmedAccount
	}

	result, err := s.SignIn(ctx, account)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account.LastLoginAt = &now
	account.UpdatedAt = now
	if err := s.adminRepo.Update(ctx, account); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": account.ID}).WithError(err).Warn("failed to update admin last login time")
		}
	}

	return result, nil
}

// SignIn establishes a session for an already-authenticated account. Claims
// are stored server-side keyed by token hash so sessions can be revoked.
func (s *SessionService) SignIn(ctx context.Context, account *admin.AdminUser) (*session.SignInResult, error) {
	now := time.Now()

	claims := &session.Claims{
		AdminID:      account.ID,
		Email:        account.Email,
		AccountKind:  s.adminCfg.AccountKind,
		LastActivity: now,
		CreatedAt:    now,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionCfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.sessionCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	expiry := now.Add(s.sessionCfg.SessionTimeout)
	if s.sessionCfg.TokenTTL < s.sessionCfg.SessionTimeout {
		expiry = now.Add(s.sessionCfg.TokenTTL)
	}
	if err := s.sessionRepo.StoreClaims(ctx, s.TokenHash(tokenString), claims, expiry); err != nil {
		return nil, fmt.Errorf("failed to store session claims: %w", err)
	}

	path, source := s.RedirectTarget()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"admin_id": account.ID, "redirect_to": path, "redirect_source": source}).Debug("session established")
	}

	return &session.SignInResult{
		Tokens: &session.Tokens{
			Token:     tokenString,
			ExpiresIn: int64(s.sessionCfg.TokenTTL.Seconds()),
		},
		RedirectTo:     path,
		RedirectSource: source,
	}, nil
}

// RedirectTarget resolves the post-login path. Tier one is the configured
// root-path mapping; tier two derives "/<namespace>" from the namespace
// segment, a best-effort guess that may not match the host's route map.
// The relative URL root prefix applies to both tiers.
func (s *SessionService) RedirectTarget() (string, session.RedirectSource) {
	prefix := s.adminCfg.RelativeURLRoot
	if path, ok := s.adminCfg.RootPaths[s.adminCfg.Namespace]; ok {
		return prefix + path, session.RedirectConfigured
	}
	return prefix + "/" + s.adminCfg.Namespace, session.RedirectDerived
}

func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*session.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &session.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionCfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(*session.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid session claims")
	}

	// The server-side record is authoritative: a logged-out or timed-out
	// session is gone even while the JWT itself is still within its TTL.
	stored, err := s.sessionRepo.GetClaims(ctx, s.TokenHash(tokenString))
	if err != nil {
		return nil, fmt.Errorf("session not found or expired")
	}
	if stored.AccountKind != s.adminCfg.AccountKind {
		return nil, fmt.Errorf("session belongs to a different account kind")
	}

	return claims, nil
}

func (s *SessionService) StartSession(ctx context.Context, tokenString, ipAddress, userAgent string) (*session.Claims, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.TouchActivity(ctx, s.TokenHash(tokenString), ipAddress, userAgent); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"admin_id": claims.AdminID}).WithError(err).Warn("failed to update session activity")
		}
	}

	return claims, nil
}

func (s *SessionService) Logout(ctx context.Context, tokenString string) error {
	if err := s.sessionRepo.DeleteClaims(ctx, s.TokenHash(tokenString)); err != nil {
		return fmt.Errorf("failed to delete session claims: %w", err)
	}
	return nil
}
