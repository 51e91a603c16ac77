package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// cachedAdmin is the cache-wire shape of an account. AdminUser hides its
// credential and token columns from response JSON, so caching the entity
// directly would drop them on the round trip and a cache hit would present a
// confirmed account as having no password. The cache carries every persisted
// column explicitly.
type cachedAdmin struct {
	ID                      uuid.UUID  `json:"id"`
	Email                   string     `json:"email"`
	PasswordDigest          *string    `json:"password_digest"`
	ConfirmationTokenDigest *string    `json:"confirmation_token_digest"`
	ConfirmationSentAt      *time.Time `json:"confirmation_sent_at"`
	ConfirmedAt             *time.Time `json:"confirmed_at"`
	ResetPasswordSentAt     *time.Time `json:"reset_password_sent_at"`
	LastLoginAt             *time.Time `json:"last_login_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func newCachedAdmin(a *admin.AdminUser) *cachedAdmin {
	return &cachedAdmin{
		ID:                      a.ID,
		Email:                   a.Email,
		PasswordDigest:          a.PasswordDigest,
		ConfirmationTokenDigest: a.ConfirmationTokenDigest,
		ConfirmationSentAt:      a.ConfirmationSentAt,
		ConfirmedAt:             a.ConfirmedAt,
		ResetPasswordSentAt:     a.ResetPasswordSentAt,
		LastLoginAt:             a.LastLoginAt,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
}

func (c *cachedAdmin) account() *admin.AdminUser {
	return &admin.AdminUser{
		ID:                      c.ID,
		Email:                   c.Email,
		PasswordDigest:          c.PasswordDigest,
		ConfirmationTokenDigest: c.ConfirmationTokenDigest,
		ConfirmationSentAt:      c.ConfirmationSentAt,
		ConfirmedAt:             c.ConfirmedAt,
		ResetPasswordSentAt:     c.ResetPasswordSentAt,
		LastLoginAt:             c.LastLoginAt,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

func cacheSetAccount(c ports.Cache, ctx context.Context, key string, a *admin.AdminUser, ttl time.Duration) {
	cacheSetSilently(c, ctx, key, newCachedAdmin(a), ttl)
}

func cacheGetAccount(c ports.Cache, ctx context.Context, key string) (*admin.AdminUser, bool) {
	v, ok := cacheGet[cachedAdmin](c, ctx, key)
	if !ok {
		return nil, false
	}
	return v.account(), true
}

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadAccountWithSingleflight coalesces a cache-miss load so concurrent misses
// for the same key hit the database once. The loader fetches from the inner
// repository when called.
func loadAccountWithSingleflight(cache ports.Cache, ctx context.Context, key string, ttl time.Duration, loader func() (*admin.AdminUser, error)) (*admin.AdminUser, error) {
	if v, ok := cacheGetAccount(cache, ctx, key); ok {
		return v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGetAccount(cache, ctx, key); ok {
			return v, nil
		}
		a, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetAccount(cache, ctx, key, a, ttl)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	a, ok := res.(*admin.AdminUser)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return a, nil
}

// CachingAdminRepository decorates an AdminRepository with cache-aside reads
// for GetByID and GetByEmail (short TTL expected). Confirmation lookups and
// the confirm transition always go to the database: the conditional update
// there is what keeps the transition one-way, and a stale cached read must
// never influence it.
type CachingAdminRepository struct {
	inner ports.AdminRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingAdminRepository(inner ports.AdminRepository, cache ports.Cache, ttl time.Duration) ports.AdminRepository {
	return &CachingAdminRepository{inner: inner, cache: cache, ttl: ttl}
}

func adminIDKey(id uuid.UUID) string { return "admin:id:" + id.String() }
func adminEmailKey(email string) string { return "admin:email:" + email }

func (c *CachingAdminRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if c.cache == nil {
		return
	}
	// Need current to delete the email key; prefer the cached copy, fall back
	// to the inner repository.
	if v, ok := cacheGetAccount(c.cache, ctx, adminIDKey(id)); ok {
		_ = c.cache.Delete(ctx, adminEmailKey(v.Email))
	} else if current, err := c.inner.GetByID(ctx, id); err == nil {
		_ = c.cache.Delete(ctx, adminEmailKey(current.Email))
	}
	_ = c.cache.Delete(ctx, adminIDKey(id))
}

func (c *CachingAdminRepository) Create(ctx context.Context, a *admin.AdminUser) error {
	if err := c.inner.Create(ctx, a); err != nil {
		return err
	}
	cacheSetAccount(c.cache, ctx, adminIDKey(a.ID), a, c.ttl)
	cacheSetAccount(c.cache, ctx, adminEmailKey(a.Email), a, c.ttl)
	return nil
}

func (c *CachingAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
	a, err := loadAccountWithSingleflight(c.cache, ctx, adminIDKey(id), c.ttl, func() (*admin.AdminUser, error) {
		return c.inner.GetByID(ctx, id)
	})
	if err == nil {
		cacheSetAccount(c.cache, ctx, adminEmailKey(a.Email), a, c.ttl)
	}
	return a, err
}

func (c *CachingAdminRepository) GetByEmail(ctx context.Context, email string) (*admin.AdminUser, error) {
	a, err := loadAccountWithSingleflight(c.cache, ctx, adminEmailKey(email), c.ttl, func() (*admin.AdminUser, error) {
		return c.inner.GetByEmail(ctx, email)
	})
	if err == nil {
		cacheSetAccount(c.cache, ctx, adminIDKey(a.ID), a, c.ttl)
	}
	return a, err
}

// FindByConfirmationDigest is never cached; the confirmation flow must see
// current state.
func (c *CachingAdminRepository) FindByConfirmationDigest(ctx context.Context, digest string) (*admin.AdminUser, error) {
	return c.inner.FindByConfirmationDigest(ctx, digest)
}

func (c *CachingAdminRepository) Confirm(ctx context.Context, id uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error {
	err := c.inner.Confirm(ctx, id, tokenDigest, passwordDigest, confirmedAt)
	// Drop cached copies even on ErrAlreadyConfirmed: a concurrent winner may
	// have changed the row under us.
	c.invalidate(ctx, id)
	return err
}

func (c *CachingAdminRepository) SetConfirmationDigest(ctx context.Context, id uuid.UUID, digest string, sentAt time.Time) error {
	if err := c.inner.SetConfirmationDigest(ctx, id, digest, sentAt); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachingAdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordDigest string) error {
	if err := c.inner.UpdatePassword(ctx, id, passwordDigest); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachingAdminRepository) Update(ctx context.Context, a *admin.AdminUser) error {
	if err := c.inner.Update(ctx, a); err != nil {
		return err
	}
	cacheSetAccount(c.cache, ctx, adminIDKey(a.ID), a, c.ttl)
	cacheSetAccount(c.cache, ctx, adminEmailKey(a.Email), a, c.ttl)
	return nil
}

// Simple validation to ensure the decorator implements the interface at compile time
var _ ports.AdminRepository = (*CachingAdminRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
