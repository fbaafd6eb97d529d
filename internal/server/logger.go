// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"io"
	"log/slog"
	"os"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// setupLogger configures the global slog logger. When a Sentry DSN is set,
// error records are additionally forwarded to Sentry. The returned function
// flushes pending Sentry events.
func setupLogger(cfg *config.LogConfig) func() {
	handler := newHandler(os.Stdout, cfg.Level, cfg.Format)
	flush := func() {}

	var sentryErr error
	if cfg.SentryDSN != "" {
		sentryErr = sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN})
		if sentryErr == nil {
			handler = slogmulti.Fanout(handler, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	slog.SetDefault(slog.New(handler))
	if sentryErr != nil {
		slog.Warn("sentry_init_failed", "error", sentryErr)
	}
	return flush
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	logLevel := parseLevel(level)
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	}
	return tint.NewHandler(w, &tint.Options{Level: logLevel})
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
