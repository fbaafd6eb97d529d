// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"fmt"

	"codeberg.org/oliverandrich/uptask/internal/config"
)

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg *config.MailConfig) (Transport, error) {
	switch cfg.Transport {
	case config.MailTransportLog, "":
		return NewLogTransport(nil), nil
	case config.MailTransportSMTP:
		return NewSMTPTransport(&cfg.SMTP)
	case config.MailTransportResend:
		return NewResendTransport(cfg.ResendAPIKey, cfg.From, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
