// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// User is an account with its credential and token state.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                  int64     `db:"id" json:"id"`
	Email               string    `db:"email" json:"email"`
	PasswordHash        string    `db:"password_hash" json:"-"`
	Active              bool      `db:"active" json:"active"`
	ResetToken          *string   `db:"reset_token" json:"-"` // SHA256 hash
	ResetTokenExpiresAt Timestamp `db:"reset_token_expires_at" json:"-"`
	ConfirmationToken   *string   `db:"confirmation_token" json:"-"` // SHA256 hash
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Identity returns the minimal reference kept for an authenticated user.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email}
}

// HasResetInFlight reports whether a reset token is stored, expired or not.
func (u *User) HasResetInFlight() bool {
	return u.ResetToken != nil
}

// ResetTokenExpired reports whether the stored reset token is past its expiry at now.
// The expiry instant itself is still valid.
func (u *User) ResetTokenExpired(now time.Time) bool {
	if !u.ResetTokenExpiresAt.Valid {
		return true
	}
	return now.After(u.ResetTokenExpiresAt.Time)
}
