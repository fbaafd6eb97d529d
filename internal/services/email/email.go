// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email renders and delivers account notification emails.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/i18n"
)

// Kind identifies a notification template.
type Kind string

const (
	KindConfirmation  Kind = "confirmation"
	KindPasswordReset Kind = "password_reset"
)

// DefaultSendTimeout bounds a single delivery attempt.
const DefaultSendTimeout = 10 * time.Second

// ErrUnknownKind is returned for a Kind without a template.
var ErrUnknownKind = errors.New("unknown notification kind")

// Recipient is the address a notification goes to and the link it carries.
type Recipient struct {
	Email string
	URL   string
}

// Transport delivers a rendered plain-text message.
type Transport interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// Service renders notifications in the locale of the context and hands them
// to a Transport.
type Service struct {
	transport Transport
	timeout   time.Duration
}

// NewService creates a new email service.
func NewService(transport Transport, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Service{transport: transport, timeout: timeout}
}

// Send renders the notification of the given kind and delivers it, waiting at
// most the configured timeout.
func (s *Service) Send(ctx context.Context, kind Kind, to Recipient) error {
	subject, body, err := Render(ctx, kind, to)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.transport.Deliver(ctx, to.Email, subject, body); err != nil {
		return fmt.Errorf("sending %s email: %w", kind, err)
	}

	slog.Info("email_sent", "kind", kind, "to", to.Email)
	return nil
}

// Render returns the localized subject and body for a notification.
func Render(ctx context.Context, kind Kind, to Recipient) (subject, body string, err error) {
	var prefix string
	switch kind {
	case KindConfirmation:
		prefix = "email_confirmation"
	case KindPasswordReset:
		prefix = "email_reset"
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	subject = i18n.T(ctx, prefix+"_subject")
	body = i18n.TData(ctx, prefix+"_body", map[string]any{"URL": to.URL})
	return subject, body, nil
}
