// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"codeberg.org/oliverandrich/uptask/internal/services/email"
	"codeberg.org/oliverandrich/uptask/internal/services/token"
)

// RequestReset issues a reset token for the account with the given email and
// mails the reset link. An unknown email is not an error and sends nothing.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) error {
	tok, err := s.issuer.Issue()
	if err != nil {
		return err
	}

	user, err := s.store.SetResetToken(ctx, emailAddr, tok.Hash, tok.Expiry)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.DebugContext(ctx, "reset_requested", "email", emailAddr)
			return nil
		}
		return storeUnavailable(ctx, "set_reset_token", err)
	}

	slog.InfoContext(ctx, "reset_requested", "email", emailAddr)

	err = s.notifier.Send(ctx, email.KindPasswordReset, email.Recipient{
		Email: user.Email,
		URL:   s.link("/auth/reset/", tok.Plaintext),
	})
	if err != nil {
		slog.WarnContext(ctx, "notification_failed", "kind", email.KindPasswordReset, "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return nil
}

// ValidateResetToken reports whether a reset token is on record. Expiry is
// checked on redemption.
func (s *Service) ValidateResetToken(ctx context.Context, plaintext string) error {
	_, err := s.lookupResetToken(ctx, plaintext)
	return err
}

// RedeemReset sets a new password for the holder of a valid reset token and
// consumes the token. Of concurrent redemptions of one token exactly one
// succeeds.
func (s *Service) RedeemReset(ctx context.Context, plaintext, newPassword string) error {
	user, err := s.lookupResetToken(ctx, plaintext)
	if err != nil {
		return err
	}
	now := s.now()
	if user.ResetTokenExpired(now) {
		slog.InfoContext(ctx, "reset_failed", "user_id", user.ID, "reason", "token_expired")
		return ErrTokenExpired
	}

	if pwErrs := s.validator.Validate(newPassword, user.Email); pwErrs != nil {
		return passwordFieldErrors(pwErrs)
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	digest := token.HashToken(plaintext)
	redeemed, err := s.store.RedeemResetToken(ctx, digest, hash, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.classifyFailedRedeem(ctx, digest)
		}
		return storeUnavailable(ctx, "redeem_reset_token", err)
	}

	slog.InfoContext(ctx, "password_reset", "user_id", redeemed.ID)
	return nil
}

func (s *Service) lookupResetToken(ctx context.Context, plaintext string) (*models.User, error) {
	if plaintext == "" {
		return nil, ErrTokenNotFound
	}
	user, err := s.store.GetUserByResetToken(ctx, token.HashToken(plaintext))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, storeUnavailable(ctx, "get_user_by_reset_token", err)
	}
	return user, nil
}

// classifyFailedRedeem tells an expired token, which is still on record,
// from one that was consumed or never existed.
func (s *Service) classifyFailedRedeem(ctx context.Context, digest string) error {
	_, err := s.store.GetUserByResetToken(ctx, digest)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "reset_failed", "reason", "token_expired")
		return ErrTokenExpired
	case errors.Is(err, repository.ErrNotFound):
		slog.InfoContext(ctx, "reset_failed", "reason", "token_not_found")
		return ErrTokenNotFound
	default:
		return storeUnavailable(ctx, "get_user_by_reset_token", err)
	}
}
