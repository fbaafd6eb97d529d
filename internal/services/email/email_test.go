// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type delivery struct {
	to, subject, body string
	deadline          bool
}

type fakeTransport struct {
	sent []delivery
	err  error
	wait bool
}

func (f *fakeTransport) Deliver(ctx context.Context, to, subject, body string) error {
	if f.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	_, hasDeadline := ctx.Deadline()
	f.sent = append(f.sent, delivery{to, subject, body, hasDeadline})
	return f.err
}

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "Test App",
		TLS:      true,
	}
}

func TestSend_Confirmation(t *testing.T) {
	transport := &fakeTransport{}
	svc := email.NewService(transport, time.Second)
	ctx := i18n.WithLocale(context.Background(), language.English)

	err := svc.Send(ctx, email.KindConfirmation, email.Recipient{
		Email: "ana@example.com",
		URL:   "https://example.com/auth/confirm/ana%40example.com",
	})

	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "ana@example.com", transport.sent[0].to)
	assert.Equal(t, "Confirm your UpTask account", transport.sent[0].subject)
	assert.Contains(t, transport.sent[0].body, "https://example.com/auth/confirm/ana%40example.com")
	assert.True(t, transport.sent[0].deadline, "delivery is bounded by a timeout")
}

func TestSend_PasswordResetLocalized(t *testing.T) {
	transport := &fakeTransport{}
	svc := email.NewService(transport, time.Second)
	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	err := svc.Send(ctx, email.KindPasswordReset, email.Recipient{
		Email: "ana@example.com",
		URL:   "https://example.com/auth/reset/abc",
	})

	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Restablece tu password de UpTask", transport.sent[0].subject)
	assert.Contains(t, transport.sent[0].body, "https://example.com/auth/reset/abc")
}

func TestSend_UnknownKind(t *testing.T) {
	transport := &fakeTransport{}
	svc := email.NewService(transport, time.Second)

	err := svc.Send(context.Background(), email.Kind("newsletter"), email.Recipient{Email: "ana@example.com"})

	assert.ErrorIs(t, err, email.ErrUnknownKind)
	assert.Empty(t, transport.sent)
}

func TestSend_TransportError(t *testing.T) {
	boom := errors.New("relay down")
	svc := email.NewService(&fakeTransport{err: boom}, time.Second)

	err := svc.Send(context.Background(), email.KindConfirmation, email.Recipient{Email: "ana@example.com"})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sending confirmation email")
}

func TestSend_Timeout(t *testing.T) {
	svc := email.NewService(&fakeTransport{wait: true}, 10*time.Millisecond)

	err := svc.Send(context.Background(), email.KindPasswordReset, email.Recipient{Email: "ana@example.com"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewSMTPTransport(t *testing.T) {
	tr, err := email.NewSMTPTransport(validSMTPConfig())

	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestNewSMTPTransport_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := email.NewSMTPTransport(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewSMTPTransport_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := email.NewSMTPTransport(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestSMTPTransport_InvalidRecipient(t *testing.T) {
	tr, err := email.NewSMTPTransport(validSMTPConfig())
	require.NoError(t, err)

	err = tr.Deliver(context.Background(), "not an address", "s", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting to address")
}

func TestNewResendTransport(t *testing.T) {
	_, err := email.NewResendTransport("", "noreply@example.com", "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = email.NewResendTransport("re_123", "", "")
	assert.ErrorContains(t, err, "from address is required")

	tr, err := email.NewResendTransport("re_123", "noreply@example.com", "UpTask")
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestLogTransport(t *testing.T) {
	var buf bytes.Buffer
	tr := email.NewLogTransport(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, tr.Deliver(context.Background(), "ana@example.com", "Hello", "https://example.com/x"))

	assert.Contains(t, buf.String(), "email_logged")
	assert.Contains(t, buf.String(), "ana@example.com")
	assert.Contains(t, buf.String(), "https://example.com/x")
}

func TestLogTransport_CancelledContext(t *testing.T) {
	tr := email.NewLogTransport(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tr.Deliver(ctx, "ana@example.com", "s", "b"), context.Canceled)
}

func TestNewTransport(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MailConfig
		wantErr string
	}{
		{"log", config.MailConfig{Transport: config.MailTransportLog}, ""},
		{"default", config.MailConfig{}, ""},
		{"smtp", config.MailConfig{Transport: config.MailTransportSMTP, SMTP: *validSMTPConfig()}, ""},
		{"smtp without host", config.MailConfig{Transport: config.MailTransportSMTP}, "SMTP host is required"},
		{"resend", config.MailConfig{Transport: config.MailTransportResend, ResendAPIKey: "re_123", From: "noreply@example.com"}, ""},
		{"unknown", config.MailConfig{Transport: "pigeon"}, "unknown mail transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := email.NewTransport(&tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, tr)
		})
	}
}
