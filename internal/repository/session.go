// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/models"
)

// CreateSession stores a new session.
func (r *Repository) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		s.ID, s.UserID, s.ExpiresAt)
	return wrapError(err)
}

// GetSession retrieves a session by ID.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := r.db.GetContext(ctx, &s, `SELECT * FROM sessions WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &s, nil
}

// DeleteSession deletes a session. Deleting an unknown session is not an error.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions deletes sessions expired before now and returns how many were removed.
func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, models.NewTimestamp(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
