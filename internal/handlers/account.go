// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"codeberg.org/oliverandrich/uptask/internal/flash"
	"codeberg.org/oliverandrich/uptask/internal/services/auth"
	"codeberg.org/oliverandrich/uptask/internal/templates"
	"github.com/labstack/echo/v4"
)

const (
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
	resetPath  = "/auth/reset"
	homePath   = "/"
)

// LoginPage renders the login form.
func (h *Handlers) LoginPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Login(h.page(c), templates.Form{}))
}

// Login verifies the submitted credentials and starts a session.
func (h *Handlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	identity, err := h.auth.Authenticate(ctx, c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), loginPath)
	}

	cookie, err := h.sessions.Establish(ctx, identity)
	if err != nil {
		slog.ErrorContext(ctx, "session_create_failed", "user_id", identity.ID, "error", err)
		return h.redirectWithFlash(c, flash.KindError, "flash_store_unavailable", loginPath)
	}
	c.SetCookie(cookie)

	return redirect(c, homePath)
}

// Logout ends the current session.
func (h *Handlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := h.sessions.Destroy(ctx, c.Request())
	if err != nil {
		slog.ErrorContext(ctx, "session_destroy_failed", "error", err)
		cookie = h.sessions.Clear()
	}
	c.SetCookie(cookie)

	return h.redirectWithFlash(c, flash.KindSuccess, "flash_logged_out", loginPath)
}

// SignupPage renders the signup form.
func (h *Handlers) SignupPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Signup(h.page(c), templates.Form{}))
}

// Signup creates an account and sends the confirmation email. Validation
// failures re-render the form with the submitted email.
func (h *Handlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.FormValue("email")

	_, err := h.auth.BeginSignup(ctx, email, c.FormValue("password"))
	switch {
	case err == nil:
		return h.redirectWithFlash(c, flash.KindSuccess, "flash_signup_success", loginPath)
	case auth.Fields(err) != nil:
		return Render(c, http.StatusUnprocessableEntity, templates.Signup(templates.Page{}, templates.Form{
			Email:  email,
			Errors: fieldMessages(ctx, err),
		}))
	case errors.Is(err, auth.ErrNotificationFailed):
		return h.redirectWithFlash(c, flash.KindError, "flash_notification_failed", loginPath)
	default:
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), signupPath)
	}
}

// Confirm activates the account named in the confirmation link.
func (h *Handlers) Confirm(c echo.Context) error {
	locator := pathParam(c, "locator")

	if err := h.auth.ConfirmAccount(c.Request().Context(), locator); err != nil {
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), signupPath)
	}
	return h.redirectWithFlash(c, flash.KindSuccess, "flash_account_confirmed", loginPath)
}

// ResetRequestPage renders the form asking for the account email.
func (h *Handlers) ResetRequestPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.ResetRequest(h.page(c)))
}

// ResetRequest issues a reset token and mails the link. The response does not
// reveal whether the email belongs to an account.
func (h *Handlers) ResetRequest(c echo.Context) error {
	if err := h.auth.RequestReset(c.Request().Context(), c.FormValue("email")); err != nil {
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), resetPath)
	}
	return h.redirectWithFlash(c, flash.KindSuccess, "flash_reset_sent", loginPath)
}

// ResetForm renders the new password form if the token is on record.
func (h *Handlers) ResetForm(c echo.Context) error {
	token := pathParam(c, "token")

	if err := h.auth.ValidateResetToken(c.Request().Context(), token); err != nil {
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), resetPath)
	}
	return Render(c, http.StatusOK, templates.ResetForm(h.page(c), token, templates.Form{}))
}

// ResetPassword redeems the token and stores the new password.
func (h *Handlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	token := pathParam(c, "token")

	err := h.auth.RedeemReset(ctx, token, c.FormValue("password"))
	switch {
	case err == nil:
		return h.redirectWithFlash(c, flash.KindSuccess, "flash_password_updated", loginPath)
	case auth.Fields(err) != nil:
		return Render(c, http.StatusUnprocessableEntity, templates.ResetForm(templates.Page{}, token, templates.Form{
			Errors: fieldMessages(ctx, err),
		}))
	default:
		return h.redirectWithFlash(c, flash.KindError, flashMessageID(err), resetPath)
	}
}

// pathParam returns a path parameter decoded exactly once. Echo matches on
// URL.RawPath when it is set, leaving the parameter escaped; otherwise the
// parameter comes from the already decoded URL.Path.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
