// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the account pages as templ components.
package templates

import (
	"context"
	"io"

	"codeberg.org/oliverandrich/uptask/internal/auth"
	"codeberg.org/oliverandrich/uptask/internal/ctxkeys"
	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"github.com/a-h/templ"
)

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(ctxkeys.CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// GetUser returns the authenticated user from context, or nil if not logged in.
func GetUser(ctx context.Context) *models.User {
	return auth.GetUser(ctx)
}

// IsAuthenticated returns true if a user is logged in.
func IsAuthenticated(ctx context.Context) bool {
	return auth.IsAuthenticated(ctx)
}

// writer accumulates markup and remembers the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// text writes s HTML-escaped.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}
