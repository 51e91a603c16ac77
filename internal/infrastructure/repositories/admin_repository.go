package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
	"github.com/opsboard/admin-console/internal/core/ports"
	"github.com/opsboard/admin-console/internal/infrastructure/db"
)

// AdminRepository implements the admin account repository interface
type AdminRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAdminRepository creates a new admin account repository
func NewAdminRepository(database *db.Database, logger *logrus.Logger) ports.AdminRepository {
	return &AdminRepository{
		db:     database,
		logger: logger,
	}
}

const adminColumns = `id, email, password_digest, confirmation_token_digest, confirmation_sent_at,
	   confirmed_at, reset_password_sent_at, last_login_at, created_at, updated_at`

// Create creates a new admin account
func (r *AdminRepository) Create(ctx context.Context, a *admin.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_digest, confirmation_token_digest, confirmation_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordDigest, a.ConfirmationTokenDigest, a.ConfirmationSentAt,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": a.ID, "email": a.Email}).WithError(err).Error("db: failed to create admin account")
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"admin_id": a.ID, "email": a.Email}).Info("db: admin account created")
	}

	return nil
}

// GetByID retrieves an admin account by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*admin.AdminUser, error) {
	var a admin.AdminUser
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"admin_id": id}).Debug("db: admin account not found by ID")
			}
			return nil, admin.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).WithError(err).Error("db: failed to get admin account by ID")
		}
		return nil, fmt.Errorf("failed to get admin account by ID: %w", err)
	}

	return &a, nil
}

// GetByEmail retrieves an admin account by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*admin.AdminUser, error) {
	var a admin.AdminUser
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &a, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: admin account not found by email")
			}
			return nil, admin.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get admin account by email")
		}
		return nil, fmt.Errorf("failed to get admin account by email: %w", err)
	}

	return &a, nil
}

// FindByConfirmationDigest retrieves the account holding the given confirmation
// token digest. Confirmation state is not part of the predicate: confirmed
// accounts keep their digest so a replayed token still resolves here.
func (r *AdminRepository) FindByConfirmationDigest(ctx context.Context, digest string) (*admin.AdminUser, error) {
	var a admin.AdminUser
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE confirmation_token_digest = $1`

	err := r.db.DB.GetContext(ctx, &a, query, digest)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, admin.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to look up admin account by confirmation digest")
		}
		return nil, fmt.Errorf("failed to look up admin account by confirmation digest: %w", err)
	}

	return &a, nil
}

// Confirm commits the confirm transition as a single conditional update. The
// confirmed_at IS NULL guard makes the transition one-way: whichever attempt
// lands first wins, every later one affects zero rows and gets
// admin.ErrAlreadyConfirmed.
func (r *AdminRepository) Confirm(ctx context.Context, id uuid.UUID, tokenDigest string, passwordDigest *string, confirmedAt time.Time) error {
	query := `
		UPDATE admin_users
		SET confirmed_at = $3, password_digest = COALESCE($4, password_digest), updated_at = $3
		WHERE id = $1 AND confirmation_token_digest = $2 AND confirmed_at IS NULL`

	result, err := r.db.DB.ExecContext(ctx, query, id, tokenDigest, confirmedAt, passwordDigest)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).WithError(err).Error("db: failed to confirm admin account")
		}
		return fmt.Errorf("failed to confirm admin account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).WithError(err).Error("db: failed to get rows affected on confirm")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).Debug("db: confirm affected 0 rows - account already confirmed")
		}
		return admin.ErrAlreadyConfirmed
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"admin_id": id}).Info("db: admin account confirmed")
	}

	return nil
}

// SetConfirmationDigest replaces the outstanding confirmation token digest on
// an unconfirmed account (resend). A confirmed account is left untouched.
func (r *AdminRepository) SetConfirmationDigest(ctx context.Context, id uuid.UUID, digest string, sentAt time.Time) error {
	query := `
		UPDATE admin_users
		SET confirmation_token_digest = $2, confirmation_sent_at = $3, updated_at = $3
		WHERE id = $1 AND confirmed_at IS NULL`

	result, err := r.db.DB.ExecContext(ctx, query, id, digest, sentAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).WithError(err).Error("db: failed to set confirmation digest")
		}
		return fmt.Errorf("failed to set confirmation digest: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return admin.ErrAlreadyConfirmed
	}

	return nil
}

// UpdatePassword replaces the account's password digest
func (r *AdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordDigest string) error {
	query := `UPDATE admin_users SET password_digest = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, passwordDigest, time.Now())
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": id}).WithError(err).Error("db: failed to update admin password")
		}
		return fmt.Errorf("failed to update admin password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return admin.ErrNotFound
	}

	return nil
}

// Update updates mutable account metadata
func (r *AdminRepository) Update(ctx context.Context, a *admin.AdminUser) error {
	query := `
		UPDATE admin_users
		SET email = $2, reset_password_sent_at = $3, last_login_at = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Email, a.ResetPasswordSentAt, a.LastLoginAt, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": a.ID}).WithError(err).Error("db: failed to update admin account")
		}
		return fmt.Errorf("failed to update admin account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": a.ID}).WithError(err).Error("db: failed to get rows affected on update")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"admin_id": a.ID}).Debug("db: update affected 0 rows - account not found")
		}
		return admin.ErrNotFound
	}

	return nil
}
