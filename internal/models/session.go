// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Session binds a browser session to a user ID.
type Session struct { //nolint:govet // fieldalignment: readability over optimization
	ID        string    `db:"id" json:"-"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ExpiresAt Timestamp `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.Valid || now.After(s.ExpiresAt.Time)
}
