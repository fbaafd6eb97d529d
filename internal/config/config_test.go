// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"sub.domain.localhost", true},
		{"example.com", false},
		{"www.example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "localhost HTTP default port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "localhost HTTP custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
		{
			name:     "remote host default port",
			cfg:      &Config{Server: ServerConfig{Host: "example.com", Port: 443}},
			expected: "https://example.com",
		},
		{
			name:     "remote host custom port",
			cfg:      &Config{Server: ServerConfig{Host: "example.com", Port: 8443}},
			expected: "https://example.com:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestApplyMailDefaults(t *testing.T) {
	t.Run("copies sender identity into smtp settings", func(t *testing.T) {
		cfg := &Config{Mail: MailConfig{From: "noreply@example.com", FromName: "UpTask"}}

		applyMailDefaults(cfg)

		assert.Equal(t, "noreply@example.com", cfg.Mail.SMTP.From)
		assert.Equal(t, "UpTask", cfg.Mail.SMTP.FromName)
		assert.Equal(t, MailTransportLog, cfg.Mail.Transport)
	})

	t.Run("does not override existing values", func(t *testing.T) {
		cfg := &Config{Mail: MailConfig{
			Transport: MailTransportSMTP,
			From:      "noreply@example.com",
			SMTP:      SMTPConfig{From: "smtp@example.com", FromName: "Relay"},
		}}

		applyMailDefaults(cfg)

		assert.Equal(t, "smtp@example.com", cfg.Mail.SMTP.From)
		assert.Equal(t, "Relay", cfg.Mail.SMTP.FromName)
		assert.Equal(t, MailTransportSMTP, cfg.Mail.Transport)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Mail: MailConfig{Transport: MailTransportLog},
			Auth: AuthConfig{ConfirmationMode: ConfirmationModeEmail, ResetTokenTTL: time.Hour},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Auth.ConfirmationMode = "carrier-pigeon"
	assert.ErrorContains(t, cfg.Validate(), "unknown confirmation mode")

	cfg = valid()
	cfg.Mail.Transport = "fax"
	assert.ErrorContains(t, cfg.Validate(), "unknown mail transport")

	cfg = valid()
	cfg.Auth.ResetTokenTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "must be positive")
}

func TestFlags(t *testing.T) {
	flags := Flags()

	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["base-url"], "should have base-url flag")
	assert.True(t, flagNames["log-level"], "should have log-level flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["session-cookie-name"], "should have session-cookie-name flag")
	assert.True(t, flagNames["mail-transport"], "should have mail-transport flag")
	assert.True(t, flagNames["reset-token-ttl"], "should have reset-token-ttl flag")
	assert.True(t, flagNames["confirmation-mode"], "should have confirmation-mode flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "_session", cfg.Session.CookieName)
			assert.Equal(t, 604800, cfg.Session.MaxAge)
			assert.Equal(t, MailTransportLog, cfg.Mail.Transport)
			assert.Equal(t, 10*time.Second, cfg.Mail.SendTimeout)
			assert.Equal(t, 10, cfg.Auth.BcryptCost)
			assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
			assert.Equal(t, ConfirmationModeEmail, cfg.Auth.ConfirmationMode)
			assert.NoError(t, cfg.Validate())

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://example.com", cfg.Server.BaseURL)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, MailTransportSMTP, cfg.Mail.Transport)
			assert.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenTTL)
			assert.Equal(t, ConfirmationModeToken, cfg.Auth.ConfirmationMode)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://example.com",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--mail-transport", "SMTP",
		"--reset-token-ttl", "30m",
		"--confirmation-mode", "token",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
