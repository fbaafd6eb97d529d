// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	require.NoError(t, i18n.Init())
	require.NoError(t, i18n.Init(), "init is idempotent")
}

func TestT(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "UpTask", i18n.T(ctx, "app_name"))
	assert.Equal(t, "Log in", i18n.T(ctx, "login_title"))
}

func TestT_German(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Anmelden", i18n.T(ctx, "login_title"))
}

func TestT_Spanish(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	assert.Equal(t, "Iniciar sesión", i18n.T(ctx, "login_title"))
}

func TestT_NoLocaleFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Log in", i18n.T(context.Background(), "login_title"))
}

func TestT_UnknownKey(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestTData(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	body := i18n.TData(ctx, "email_reset_body", map[string]any{"URL": "https://example.com/auth/reset/abc"})

	assert.Contains(t, body, "https://example.com/auth/reset/abc")
}

func TestTranslationsComplete(t *testing.T) {
	keys := []string{
		"app_name",
		"flash_invalid_credentials",
		"flash_account_exists",
		"flash_account_not_found",
		"flash_account_confirmed",
		"flash_signup_success",
		"flash_reset_sent",
		"flash_token_not_found",
		"flash_token_expired",
		"flash_password_updated",
		"flash_notification_failed",
		"flash_store_unavailable",
		"email_invalid",
		"password_required",
		"password_min_length",
		"password_entirely_numeric",
		"password_too_similar",
		"email_confirmation_subject",
		"email_confirmation_body",
		"email_reset_subject",
		"email_reset_body",
	}

	for _, tag := range i18n.Supported {
		ctx := i18n.WithLocale(context.Background(), tag)
		for _, key := range keys {
			assert.NotEqual(t, key, i18n.T(ctx, key), "%s missing in %s", key, tag)
		}
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header   string
		expected language.Tag
	}{
		{"", language.English},
		{"en-US,en;q=0.9", language.English},
		{"de-DE,de;q=0.9,en;q=0.8", language.German},
		{"es-MX,es;q=0.9", language.Spanish},
		{"fr-FR", language.English},
		{"not a header;;;", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.header))
		})
	}
}
