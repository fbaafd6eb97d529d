// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth verifies credentials and runs the account confirmation and
// password reset workflows.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"codeberg.org/oliverandrich/uptask/internal/services/email"
	"codeberg.org/oliverandrich/uptask/internal/services/password"
	"codeberg.org/oliverandrich/uptask/internal/services/token"
)

// Store is the credential storage the service depends on. Missing rows are
// reported as repository.ErrNotFound, duplicate emails as
// repository.ErrDuplicateEmail.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string, confirmationTokenHash *string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	ActivateUserByEmail(ctx context.Context, email string) error
	ActivateUserByConfirmationToken(ctx context.Context, tokenHash string) error
	SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) (*models.User, error)
	RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
}

// Notifier sends account notifications.
type Notifier interface {
	Send(ctx context.Context, kind email.Kind, to email.Recipient) error
}

type Service struct {
	store     Store
	notifier  Notifier
	hasher    *password.Hasher
	issuer    *token.Issuer
	validator *password.Validator
	baseURL   string
	mode      string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, notifier Notifier, hasher *password.Hasher, issuer *token.Issuer, cfg *config.AuthConfig, baseURL string, opts ...Option) *Service {
	mode := cfg.ConfirmationMode
	if mode == "" {
		mode = config.ConfirmationModeEmail
	}
	s := &Service{
		store:     store,
		notifier:  notifier,
		hasher:    hasher,
		issuer:    issuer,
		validator: password.DefaultValidator(cfg.MinPasswordLength),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		mode:      mode,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies email and password against an active account.
// Unknown, inactive and wrong-password attempts all yield
// ErrInvalidCredentials after the same amount of hashing work.
func (s *Service) Authenticate(ctx context.Context, email, pw string) (*models.Identity, error) {
	user, err := s.store.GetActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Verify(ctx, pw, s.hasher.Dummy())
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slog.WarnContext(ctx, "login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, storeUnavailable(ctx, "authenticate", err)
	}

	if !s.hasher.Verify(ctx, pw, user.PasswordHash) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.WarnContext(ctx, "login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "login_success", "user_id", user.ID, "email", email)
	return user.Identity(), nil
}

func (s *Service) link(path, segment string) string {
	return s.baseURL + path + url.PathEscape(segment)
}
