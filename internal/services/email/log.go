// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"log/slog"
)

// LogTransport writes messages to the log instead of sending them. It is the
// development default, so links can be copied from the console.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a log transport. A nil logger uses slog.Default.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Deliver implements Transport.
func (t *LogTransport) Deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "email_logged", "to", to, "subject", subject, "body", body)
	return nil
}
