// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates_test

import (
	"bytes"
	"context"
	"testing"

	"codeberg.org/oliverandrich/uptask/internal/auth"
	"codeberg.org/oliverandrich/uptask/internal/ctxkeys"
	"codeberg.org/oliverandrich/uptask/internal/flash"
	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/templates"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func englishCtx() context.Context {
	ctx := i18n.WithLocale(context.Background(), language.English)
	return context.WithValue(ctx, ctxkeys.CSRFToken{}, "tok-123")
}

func TestLogin(t *testing.T) {
	html := render(t, englishCtx(), templates.Login(templates.Page{
		Flashes: []flash.Message{{Kind: flash.KindError, Text: "Incorrect email or password."}},
	}, templates.Form{Email: "ana@example.com"}))

	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, "<h1>Log in</h1>")
	assert.Contains(t, html, `action="/auth/login"`)
	assert.Contains(t, html, `name="csrf_token" value="tok-123"`)
	assert.Contains(t, html, `value="ana@example.com"`)
	assert.Contains(t, html, `class="alert alert-error"`)
	assert.Contains(t, html, "Incorrect email or password.")
	assert.Contains(t, html, `href="/auth/reset"`)
}

func TestSignup_EscapesInput(t *testing.T) {
	html := render(t, englishCtx(), templates.Signup(templates.Page{}, templates.Form{
		Email:  `"><script>alert(1)</script>`,
		Errors: []string{"<b>bad</b>"},
	}))

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>bad</b>")
	assert.Contains(t, html, "&lt;b&gt;bad&lt;/b&gt;")
}

func TestResetForm(t *testing.T) {
	html := render(t, englishCtx(), templates.ResetForm(templates.Page{}, "abc123", templates.Form{}))

	assert.Contains(t, html, `action="/auth/reset/abc123"`)
	assert.Contains(t, html, "Choose a new password")
}

func TestResetRequest_Spanish(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	html := render(t, ctx, templates.ResetRequest(templates.Page{}))

	assert.Contains(t, html, `<html lang="es">`)
	assert.Contains(t, html, "Restablecer password")
}

func TestHome(t *testing.T) {
	ctx := auth.WithUser(englishCtx(), &models.User{ID: 1, Email: "ana@example.com", Active: true})

	html := render(t, ctx, templates.Home(templates.Page{}))

	assert.Contains(t, html, "Signed in as ana@example.com")
	assert.Contains(t, html, `action="/auth/logout"`)
}
