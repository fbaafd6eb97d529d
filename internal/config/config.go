// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// Confirmation modes.
const (
	ConfirmationModeEmail = "email"
	ConfirmationModeToken = "token"
)

// Mail transports.
const (
	MailTransportLog    = "log"
	MailTransportSMTP   = "smtp"
	MailTransportResend = "resend"
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Mail     MailConfig
	Auth     AuthConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level     string // debug, info, warn, error
	Format    string // text, json
	SentryDSN string // errors are forwarded to Sentry when set
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

// MailConfig selects and configures the outbound notification transport.
type MailConfig struct { //nolint:govet // fieldalignment not critical
	Transport    string // log, smtp, resend
	From         string
	FromName     string
	SendTimeout  time.Duration
	SMTP         SMTPConfig
	ResendAPIKey string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// AuthConfig holds the credential and token policy.
type AuthConfig struct { //nolint:govet // fieldalignment not critical
	BcryptCost        int
	ResetTokenTTL     time.Duration
	ConfirmationMode  string // email, token
	MinPasswordLength int
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:     cmd.String("log-level"),
			Format:    cmd.String("log-format"),
			SentryDSN: cmd.String("sentry-dsn"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		Mail: MailConfig{
			Transport:   strings.ToLower(cmd.String("mail-transport")),
			From:        cmd.String("mail-from"),
			FromName:    cmd.String("mail-from-name"),
			SendTimeout: cmd.Duration("mail-send-timeout"),
			SMTP: SMTPConfig{
				Host:     cmd.String("smtp-host"),
				Port:     int(cmd.Int("smtp-port")),
				Username: cmd.String("smtp-username"),
				Password: cmd.String("smtp-password"),
				TLS:      cmd.Bool("smtp-tls"),
			},
			ResendAPIKey: cmd.String("resend-api-key"),
		},
		Auth: AuthConfig{
			BcryptCost:        int(cmd.Int("bcrypt-cost")),
			ResetTokenTTL:     cmd.Duration("reset-token-ttl"),
			ConfirmationMode:  strings.ToLower(cmd.String("confirmation-mode")),
			MinPasswordLength: int(cmd.Int("min-password-length")),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	applyMailDefaults(cfg)

	return cfg
}

// Validate reports configuration values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.ConfirmationMode {
	case ConfirmationModeEmail, ConfirmationModeToken:
	default:
		return fmt.Errorf("unknown confirmation mode %q", c.Auth.ConfirmationMode)
	}
	switch c.Mail.Transport {
	case MailTransportLog, MailTransportSMTP, MailTransportResend:
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}
	if c.Auth.ResetTokenTTL <= 0 {
		return fmt.Errorf("reset token ttl must be positive")
	}
	return nil
}

// applyMailDefaults copies the shared sender identity into the SMTP settings.
func applyMailDefaults(cfg *Config) {
	if cfg.Mail.SMTP.From == "" {
		cfg.Mail.SMTP.From = cfg.Mail.From
	}
	if cfg.Mail.SMTP.FromName == "" {
		cfg.Mail.SMTP.FromName = cfg.Mail.FromName
	}
	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = MailTransportLog
	}
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if !IsLocalhost(host) {
		scheme = "https"
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL used in confirmation and reset links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "sentry-dsn",
			Usage:   "Sentry DSN for error reporting (optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SENTRY_DSN"), toml.TOML("log.sentry_dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		// Mail flags
		&cli.StringFlag{
			Name:    "mail-transport",
			Value:   MailTransportLog,
			Usage:   "Mail transport (log, smtp, resend)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_TRANSPORT"), toml.TOML("mail.transport", configFile)),
		},
		&cli.StringFlag{
			Name:    "mail-from",
			Value:   "noreply@localhost",
			Usage:   "Sender address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_FROM"), toml.TOML("mail.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "mail-from-name",
			Value:   "UpTask",
			Usage:   "Sender display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_FROM_NAME"), toml.TOML("mail.from_name", configFile)),
		},
		&cli.DurationFlag{
			Name:    "mail-send-timeout",
			Value:   10 * time.Second,
			Usage:   "Upper bound for a single mail delivery",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_SEND_TIMEOUT"), toml.TOML("mail.send_timeout", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("mail.smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("mail.smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("mail.smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("mail.smtp.password", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("mail.smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "resend-api-key",
			Usage:   "Resend API key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RESEND_API_KEY"), toml.TOML("mail.resend_api_key", configFile)),
		},
		// Auth flags
		&cli.IntFlag{
			Name:    "bcrypt-cost",
			Value:   10,
			Usage:   "bcrypt work factor for password hashes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BCRYPT_COST"), toml.TOML("auth.bcrypt_cost", configFile)),
		},
		&cli.DurationFlag{
			Name:    "reset-token-ttl",
			Value:   time.Hour,
			Usage:   "Validity window of password reset tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RESET_TOKEN_TTL"), toml.TOML("auth.reset_token_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "confirmation-mode",
			Value:   ConfirmationModeEmail,
			Usage:   "Account confirmation locator (email, token)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CONFIRMATION_MODE"), toml.TOML("auth.confirmation_mode", configFile)),
		},
		&cli.IntFlag{
			Name:    "min-password-length",
			Value:   6,
			Usage:   "Minimum password length",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MIN_PASSWORD_LENGTH"), toml.TOML("auth.min_password_length", configFile)),
		},
	}
}
