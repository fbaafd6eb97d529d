// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package ctxkeys defines the request context keys shared by middleware,
// handlers and templates.
package ctxkeys

type (
	// CSRFToken holds the CSRF token of the current request as a string.
	CSRFToken struct{}

	// User holds the signed-in *models.User.
	User struct{}

	// Locale holds the negotiated language as a BCP 47 string.
	Locale struct{}

	// Localizer holds the *i18n.Localizer for Locale.
	Localizer struct{}
)
