package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/infrastructure/repositories"
	tmocks "github.com/opsboard/admin-console/test/mocks"
)

// Test: a second lookup for the same account is served from cache
func TestCachingRepo_GetByID_ServesFromCache(t *testing.T) {
	account := &admin.AdminUser{ID: uuid.New(), Email: "a@corp.io"}

	loads := 0
	inner := &tmocks.AdminRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
			loads++
			return account, nil
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(context.Background(), account.ID)
		require.NoError(t, err)
		require.Equal(t, account.Email, got.Email)
	}
	require.Equal(t, 1, loads)
}

// Test: a cache hit returns the account with every persisted column intact.
// The entity hides credential and token fields from response JSON, so a
// lossy cache round trip would make a confirmed account look password-less
// and reject valid logins within the TTL.
func TestCachingRepo_CacheHitKeepsCredentialFields(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashedStr := string(hashed)
	tokenDigest := "confirmation-digest"
	now := time.Now().Truncate(time.Second)
	account := &admin.AdminUser{
		ID:                      uuid.New(),
		Email:                   "a@corp.io",
		PasswordDigest:          &hashedStr,
		ConfirmationTokenDigest: &tokenDigest,
		ConfirmedAt:             &now,
		ResetPasswordSentAt:     &now,
	}

	loads := 0
	inner := &tmocks.AdminRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) {
			loads++
			return account, nil
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	// warm the cache, then read the cached copy back
	_, err = repo.GetByEmail(context.Background(), "a@corp.io")
	require.NoError(t, err)
	got, err := repo.GetByEmail(context.Background(), "a@corp.io")
	require.NoError(t, err)
	require.Equal(t, 1, loads)

	require.NotNil(t, got.PasswordDigest)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*got.PasswordDigest), []byte("pass")))
	require.False(t, got.HasNoPassword())
	require.NotNil(t, got.ConfirmationTokenDigest)
	require.Equal(t, tokenDigest, *got.ConfirmationTokenDigest)
	require.NotNil(t, got.ConfirmedAt)
	require.NotNil(t, got.ResetPasswordSentAt)
}

// Test: an ID lookup primes the email key too, so a follow-up email lookup
// never hits the database
func TestCachingRepo_GetByID_PrimesEmailKey(t *testing.T) {
	account := &admin.AdminUser{ID: uuid.New(), Email: "a@corp.io"}

	emailLoads := 0
	inner := &tmocks.AdminRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) { return account, nil },
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) {
			emailLoads++
			return account, nil
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	_, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)

	got, err := repo.GetByEmail(context.Background(), account.Email)
	require.NoError(t, err)
	require.Equal(t, account.ID, got.ID)
	require.Equal(t, 0, emailLoads)
}

// Test: confirming drops both cached keys so the next login sees the new
// credential instead of a stale password-less copy
func TestCachingRepo_Confirm_InvalidatesBothKeys(t *testing.T) {
	id := uuid.New()
	stale := &admin.AdminUser{ID: id, Email: "a@corp.io"}

	hashed := "$2a$10$newdigest"
	now := time.Now()
	fresh := &admin.AdminUser{ID: id, Email: "a@corp.io", PasswordDigest: &hashed, ConfirmedAt: &now}

	current := stale
	emailLoads := 0
	inner := &tmocks.AdminRepositoryMock{
		GetByIDFn: func(ctx context.Context, lookupID uuid.UUID) (*admin.AdminUser, error) { return current, nil },
		GetByEmailFn: func(ctx context.Context, email string) (*admin.AdminUser, error) {
			emailLoads++
			return current, nil
		},
		ConfirmFn: func(ctx context.Context, lookupID uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error {
			current = fresh
			return nil
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	// warm both keys
	_, err := repo.GetByEmail(context.Background(), "a@corp.io")
	require.NoError(t, err)
	require.Equal(t, 1, emailLoads)

	require.NoError(t, repo.Confirm(context.Background(), id, "token-digest", &hashed, now))

	got, err := repo.GetByEmail(context.Background(), "a@corp.io")
	require.NoError(t, err)
	require.Equal(t, 2, emailLoads)
	require.NotNil(t, got.PasswordDigest)
	require.NotNil(t, got.ConfirmedAt)
}

// Test: losing the confirm race still drops the cached copies; the winner may
// have changed the row underneath
func TestCachingRepo_Confirm_InvalidatesOnRaceLoss(t *testing.T) {
	id := uuid.New()
	account := &admin.AdminUser{ID: id, Email: "a@corp.io"}

	idLoads := 0
	inner := &tmocks.AdminRepositoryMock{
		GetByIDFn: func(ctx context.Context, lookupID uuid.UUID) (*admin.AdminUser, error) {
			idLoads++
			return account, nil
		},
		ConfirmFn: func(ctx context.Context, lookupID uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error {
			return admin.ErrAlreadyConfirmed
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	_, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, idLoads)

	err = repo.Confirm(context.Background(), id, "token-digest", nil, time.Now())
	require.ErrorIs(t, err, admin.ErrAlreadyConfirmed)

	_, err = repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 2, idLoads)
}

// Test: confirmation token lookups bypass the cache entirely
func TestCachingRepo_FindByConfirmationDigest_Uncached(t *testing.T) {
	account := &admin.AdminUser{ID: uuid.New(), Email: "a@corp.io"}

	lookups := 0
	inner := &tmocks.AdminRepositoryMock{
		FindByConfirmationDigestFn: func(ctx context.Context, digest string) (*admin.AdminUser, error) {
			lookups++
			return account, nil
		},
	}
	repo := repositories.NewCachingAdminRepository(inner, tmocks.NewCacheMock(), time.Minute)

	for i := 0; i < 2; i++ {
		_, err := repo.FindByConfirmationDigest(context.Background(), "some-digest")
		require.NoError(t, err)
	}
	require.Equal(t, 2, lookups)
}
