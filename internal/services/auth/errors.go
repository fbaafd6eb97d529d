// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/uptask/internal/services/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotificationFailed = errors.New("notification failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// PasswordValidationError lists the password policy rules a password broke.
type PasswordValidationError = password.ValidationErrors

// FieldError ties a failure to a form field. MessageID is a translation ID
// and Data its template data.
type FieldError struct {
	Field     string
	MessageID string
	Data      map[string]any
	Err       error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors is a set of field failures reported together.
type FieldErrors []*FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e FieldErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, fe := range e {
		errs[i] = fe
	}
	return errs
}

// Fields extracts the field failures carried by err, if any.
func Fields(err error) []*FieldError {
	var many FieldErrors
	if errors.As(err, &many) {
		return many
	}
	var one *FieldError
	if errors.As(err, &one) {
		return []*FieldError{one}
	}
	return nil
}

func passwordFieldErrors(errs *PasswordValidationError) FieldErrors {
	out := make(FieldErrors, len(errs.Errors))
	for i, ve := range errs.Errors {
		out[i] = &FieldError{
			Field:     "password",
			MessageID: ve.Code,
			Data:      ve.Data,
			Err:       errs,
		}
	}
	return out
}

// storeUnavailable logs a storage failure and wraps it.
func storeUnavailable(ctx context.Context, op string, err error) error {
	slog.ErrorContext(ctx, "store_unavailable", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
