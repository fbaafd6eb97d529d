// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"codeberg.org/oliverandrich/uptask/internal/services/email"
	"codeberg.org/oliverandrich/uptask/internal/services/token"
)

// ValidateSignup checks the email format and the password policy and reports
// every failing field.
func (s *Service) ValidateSignup(emailAddr, pw string) error {
	var errs FieldErrors

	if !validEmail(emailAddr) {
		errs = append(errs, &FieldError{Field: "email", MessageID: "email_invalid", Err: ErrInvalidEmail})
	}
	if pwErrs := s.validator.Validate(pw, emailAddr); pwErrs != nil {
		errs = append(errs, passwordFieldErrors(pwErrs)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validEmail accepts a bare address only, without display name or brackets.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// BeginSignup creates an inactive account and sends the confirmation link.
// When the account is created but the email cannot be sent, the user is
// returned together with ErrNotificationFailed.
func (s *Service) BeginSignup(ctx context.Context, emailAddr, pw string) (*models.User, error) {
	if err := s.ValidateSignup(emailAddr, pw); err != nil {
		return nil, err
	}

	// The unique index still decides races; this only skips the hashing.
	exists, err := s.store.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, storeUnavailable(ctx, "email_exists", err)
	}
	if exists {
		return nil, accountExists(ctx, emailAddr)
	}

	hash, err := s.hasher.Hash(ctx, pw)
	if err != nil {
		return nil, err
	}

	locator := emailAddr
	var confirmationHash *string
	if s.mode == config.ConfirmationModeToken {
		tok, err := s.issuer.Issue()
		if err != nil {
			return nil, err
		}
		locator = tok.Plaintext
		confirmationHash = &tok.Hash
	}

	user, err := s.store.CreateUser(ctx, emailAddr, hash, confirmationHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, accountExists(ctx, emailAddr)
		}
		return nil, storeUnavailable(ctx, "create_user", err)
	}

	slog.InfoContext(ctx, "signup_success", "user_id", user.ID, "email", emailAddr)

	err = s.notifier.Send(ctx, email.KindConfirmation, email.Recipient{
		Email: emailAddr,
		URL:   s.link("/auth/confirm/", locator),
	})
	if err != nil {
		slog.WarnContext(ctx, "notification_failed", "kind", email.KindConfirmation, "user_id", user.ID, "error", err)
		return user, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return user, nil
}

func accountExists(ctx context.Context, emailAddr string) error {
	slog.InfoContext(ctx, "signup_failed", "email", emailAddr, "reason", "account_exists")
	return &FieldError{Field: "email", MessageID: "flash_account_exists", Err: ErrAccountExists}
}

// ConfirmAccount activates the account identified by locator. In email mode
// the locator is the address and confirming twice succeeds; in token mode
// the token is consumed.
func (s *Service) ConfirmAccount(ctx context.Context, locator string) error {
	if locator == "" {
		return ErrAccountNotFound
	}

	if s.mode == config.ConfirmationModeToken {
		if err := s.store.ActivateUserByConfirmationToken(ctx, token.HashToken(locator)); err != nil {
			return confirmFailed(ctx, err)
		}
		slog.InfoContext(ctx, "account_confirmed", "mode", s.mode)
		return nil
	}

	user, err := s.store.GetUserByEmail(ctx, locator)
	if err != nil {
		return confirmFailed(ctx, err)
	}
	if user.Active {
		slog.InfoContext(ctx, "account_already_confirmed", "user_id", user.ID)
		return nil
	}
	if err := s.store.ActivateUserByEmail(ctx, locator); err != nil {
		return confirmFailed(ctx, err)
	}

	slog.InfoContext(ctx, "account_confirmed", "mode", s.mode, "user_id", user.ID)
	return nil
}

func confirmFailed(ctx context.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		slog.InfoContext(ctx, "confirm_failed", "reason", "account_not_found")
		return ErrAccountNotFound
	}
	return storeUnavailable(ctx, "activate_user", err)
}
