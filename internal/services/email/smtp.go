// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"github.com/wneessen/go-mail"
)

// SMTPTransport delivers mail through an SMTP relay.
type SMTPTransport struct {
	cfg *config.SMTPConfig
}

// NewSMTPTransport validates cfg and creates an SMTP transport.
func NewSMTPTransport(cfg *config.SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &SMTPTransport{cfg: cfg}, nil
}

// Deliver implements Transport.
func (t *SMTPTransport) Deliver(ctx context.Context, to, subject, body string) error {
	msg, err := t.message(to, subject, body)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(t.cfg.Host, t.options()...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func (t *SMTPTransport) message(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if t.cfg.FromName != "" {
		if err := msg.FromFormat(t.cfg.FromName, t.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(t.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (t *SMTPTransport) options() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
	}

	if t.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Implicit TLS on 465, STARTTLS elsewhere
		if t.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if t.cfg.Username != "" && t.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password),
		)
	}

	return opts
}
