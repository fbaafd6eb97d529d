// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/models"
	"github.com/vinovest/sqlx"
)

// CreateUser creates a new, inactive user. confirmationTokenHash may be nil.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, confirmationTokenHash *string) (*models.User, error) {
	var user *models.User
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (email, password_hash, active, confirmation_token) VALUES (?, ?, 0, ?)`,
			email, passwordHash, confirmationTokenHash)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		user, err = getUser(ctx, tx, `SELECT * FROM users WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return getUser(ctx, r.db, `SELECT * FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email, active or not.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUser(ctx, r.db, `SELECT * FROM users WHERE email = ?`, email)
}

// GetActiveUserByEmail retrieves an activated user by email. Inactive users
// are reported as ErrNotFound.
func (r *Repository) GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUser(ctx, r.db, `SELECT * FROM users WHERE email = ? AND active = 1`, email)
}

// GetUserByResetToken retrieves the user holding the given reset token hash,
// regardless of its expiry.
func (r *Repository) GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return getUser(ctx, r.db, `SELECT * FROM users WHERE reset_token = ?`, tokenHash)
}

// EmailExists checks if a user with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	return exists, err
}

// ActivateUserByEmail marks the user with the given email active.
// Activating an already active user succeeds.
func (r *Repository) ActivateUserByEmail(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = 1, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		email)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ActivateUserByConfirmationToken activates the user holding the token hash
// and consumes the token in the same statement.
func (r *Repository) ActivateUserByConfirmationToken(ctx context.Context, tokenHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = 1, confirmation_token = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE confirmation_token = ?`,
		tokenHash)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// SetResetToken stores a reset token hash and expiry for the user with the
// given email, replacing any token in flight, and returns the updated user.
func (r *Repository) SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) (*models.User, error) {
	var user *models.User
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET reset_token = ?, reset_token_expires_at = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE email = ?`,
			tokenHash, models.NewTimestamp(expiresAt), email)
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}
		user, err = getUser(ctx, tx, `SELECT * FROM users WHERE email = ?`, email)
		return err
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return user, nil
}

// RedeemResetToken replaces the password of the user holding tokenHash if
// the token has not expired at now, clearing the token and ending the user's
// sessions. Of any number of concurrent calls with the same token at most one
// succeeds; the others get ErrNotFound.
func (r *Repository) RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	var user *models.User
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		err := tx.GetContext(ctx, &id,
			`SELECT id FROM users WHERE reset_token = ? AND reset_token_expires_at >= ?`,
			tokenHash, models.NewTimestamp(now))
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users
			 SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND reset_token = ?`,
			passwordHash, id, tokenHash)
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, id); err != nil {
			return err
		}

		user, err = getUser(ctx, tx, `SELECT * FROM users WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return user, nil
}

func getUser(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := sqlx.GetContext(ctx, q, &user, query, args...); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}
