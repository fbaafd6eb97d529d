// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"

	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/services/auth"
)

// flashMessageID maps a workflow error to the message shown to the user.
func flashMessageID(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "flash_invalid_credentials"
	case errors.Is(err, auth.ErrAccountExists):
		return "flash_account_exists"
	case errors.Is(err, auth.ErrAccountNotFound):
		return "flash_account_not_found"
	case errors.Is(err, auth.ErrTokenExpired):
		return "flash_token_expired"
	case errors.Is(err, auth.ErrTokenNotFound):
		return "flash_token_not_found"
	case errors.Is(err, auth.ErrNotificationFailed):
		return "flash_notification_failed"
	default:
		return "flash_store_unavailable"
	}
}

// fieldMessages translates the field failures carried by err.
func fieldMessages(ctx context.Context, err error) []string {
	fields := auth.Fields(err)
	messages := make([]string, 0, len(fields))
	for _, fe := range fields {
		messages = append(messages, i18n.TData(ctx, fe.MessageID, fe.Data))
	}
	return messages
}
