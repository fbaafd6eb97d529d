// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/resend/resend-go/v2"
)

// ResendTransport delivers mail through the Resend HTTP API.
type ResendTransport struct {
	client *resend.Client
	from   string
}

// NewResendTransport creates a Resend transport. fromName may be empty.
func NewResendTransport(apiKey, from, fromName string) (*ResendTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if fromName != "" {
		from = (&mail.Address{Name: fromName, Address: from}).String()
	}
	return &ResendTransport{client: resend.NewClient(apiKey), from: from}, nil
}

// Deliver implements Transport.
func (t *ResendTransport) Deliver(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    t.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	if _, err := t.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
