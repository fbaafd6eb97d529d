// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session binds authenticated identities to browser sessions. The
// cookie carries only a signed session ID; the session row carries only the
// user ID.
package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const keyLength = 32

// Store persists session rows.
type Store interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Manager issues, resolves and tears down sessions.
type Manager struct {
	store    Store
	codec    *securecookie.SecureCookie
	hashKey  []byte
	blockKey []byte
	name     string
	maxAge int
	secure bool
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager.
func NewManager(cfg *config.SessionConfig, secure bool, store Store, opts ...Option) (*Manager, error) {
	hashKey, blockKey, err := keys(cfg)
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	m := &Manager{
		store:    store,
		codec:    codec,
		hashKey:  hashKey,
		blockKey: blockKey,
		name:     cfg.CookieName,
		maxAge:   cfg.MaxAge,
		secure:   secure,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// keys decodes the configured cookie keys. An empty hash key is replaced by
// a random one, which invalidates all cookies on restart.
func keys(cfg *config.SessionConfig) (hashKey, blockKey []byte, err error) {
	hashKey, err = decodeKey(cfg.HashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if hashKey == nil {
		slog.Warn("session_hash_key_generated", "hint", "set session.hash_key to keep sessions across restarts")
		hashKey = securecookie.GenerateRandomKey(keyLength)
	}

	blockKey, err = decodeKey(cfg.BlockKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid session block key: %w", err)
	}
	return hashKey, blockKey, nil
}

// CookieKeys returns the keys the manager signs and encrypts with, so other
// cookies can share them.
func (m *Manager) CookieKeys() (hashKey, blockKey []byte) {
	return m.hashKey, m.blockKey
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("must be %d bytes, got %d", keyLength, len(key))
	}
	return key, nil
}

// Establish starts a session for identity and returns the cookie to set.
func (m *Manager) Establish(ctx context.Context, identity *models.Identity) (*http.Cookie, error) {
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		ExpiresAt: models.NewTimestamp(m.now().Add(time.Duration(m.maxAge) * time.Second)),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	value, err := m.codec.Encode(m.name, s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session cookie: %w", err)
	}

	return m.cookie(value, m.maxAge), nil
}

// Load resolves the session referenced by the request cookie. A missing,
// tampered, unknown or expired session yields nil without error; only store
// failures are reported.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*models.Session, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return nil, nil
	}

	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.Expired(m.now()) {
		if err := m.store.DeleteSession(ctx, id); err != nil {
			slog.Warn("session_delete_failed", "error", err)
		}
		return nil, nil
	}

	return s, nil
}

// Destroy ends the session referenced by the request, if any, and returns
// a cookie that removes it from the browser. It is safe to call repeatedly.
func (m *Manager) Destroy(ctx context.Context, r *http.Request) (*http.Cookie, error) {
	if id, ok := m.sessionID(r); ok {
		if err := m.store.DeleteSession(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete session: %w", err)
		}
	}
	return m.Clear(), nil
}

// Clear returns a cookie that removes the session cookie.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}

// PurgeExpired deletes expired session rows.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := m.codec.Decode(m.name, c.Value, &id); err != nil {
		return "", false
	}
	return id, true
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
