// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"
	"net/url"

	"codeberg.org/oliverandrich/uptask/internal/flash"
	"github.com/a-h/templ"
)

// Page carries what every page shows besides its own content.
type Page struct {
	Flashes []flash.Message
}

// Form carries submitted values and field messages for re-rendering.
type Form struct {
	Email  string
	Errors []string
}

func layout(titleID string, page Page, body func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		title := T(ctx, titleID)

		w.raw(`<!DOCTYPE html><html lang="`)
		w.text(Locale(ctx))
		w.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title + " | " + T(ctx, "app_name"))
		w.raw(`</title></head><body><main><h1>`)
		w.text(title)
		w.raw(`</h1>`)
		for _, m := range page.Flashes {
			w.raw(`<div class="alert alert-`)
			w.text(string(m.Kind))
			w.raw(`" role="alert">`)
			w.text(m.Text)
			w.raw(`</div>`)
		}
		body(ctx, w)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

func formOpen(ctx context.Context, w *writer, action string) {
	w.raw(`<form method="post" action="`)
	w.text(action)
	w.raw(`"><input type="hidden" name="csrf_token" value="`)
	w.text(CSRFToken(ctx))
	w.raw(`">`)
}

func field(ctx context.Context, w *writer, name, labelID, inputType, value, autocomplete string) {
	w.raw(`<label for="`)
	w.text(name)
	w.raw(`">`)
	w.text(T(ctx, labelID))
	w.raw(`</label><input id="`)
	w.text(name)
	w.raw(`" name="`)
	w.text(name)
	w.raw(`" type="`)
	w.text(inputType)
	w.raw(`" autocomplete="`)
	w.text(autocomplete)
	w.raw(`" value="`)
	w.text(value)
	w.raw(`" required>`)
}

func submit(ctx context.Context, w *writer, labelID string) {
	w.raw(`<button type="submit">`)
	w.text(T(ctx, labelID))
	w.raw(`</button></form>`)
}

func link(ctx context.Context, w *writer, href, labelID string) {
	w.raw(`<p><a href="`)
	w.text(href)
	w.raw(`">`)
	w.text(T(ctx, labelID))
	w.raw(`</a></p>`)
}

func fieldErrors(w *writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	w.raw(`<ul class="errors">`)
	for _, e := range errs {
		w.raw(`<li>`)
		w.text(e)
		w.raw(`</li>`)
	}
	w.raw(`</ul>`)
}

// Login renders the login form.
func Login(page Page, form Form) templ.Component {
	return layout("login_title", page, func(ctx context.Context, w *writer) {
		formOpen(ctx, w, "/auth/login")
		field(ctx, w, "email", "label_email", "email", form.Email, "email")
		field(ctx, w, "password", "label_password", "password", "", "current-password")
		submit(ctx, w, "button_login")
		link(ctx, w, "/auth/signup", "link_signup")
		link(ctx, w, "/auth/reset", "link_forgot")
	})
}

// Signup renders the signup form with any field messages.
func Signup(page Page, form Form) templ.Component {
	return layout("signup_title", page, func(ctx context.Context, w *writer) {
		fieldErrors(w, form.Errors)
		formOpen(ctx, w, "/auth/signup")
		field(ctx, w, "email", "label_email", "email", form.Email, "email")
		field(ctx, w, "password", "label_password", "password", "", "new-password")
		submit(ctx, w, "button_signup")
		link(ctx, w, "/auth/login", "link_login")
	})
}

// ResetRequest renders the form asking for the account email.
func ResetRequest(page Page) templ.Component {
	return layout("reset_request_title", page, func(ctx context.Context, w *writer) {
		formOpen(ctx, w, "/auth/reset")
		field(ctx, w, "email", "label_email", "email", "", "email")
		submit(ctx, w, "button_reset_request")
		link(ctx, w, "/auth/login", "link_login")
	})
}

// ResetForm renders the new password form for a reset token.
func ResetForm(page Page, token string, form Form) templ.Component {
	return layout("reset_form_title", page, func(ctx context.Context, w *writer) {
		fieldErrors(w, form.Errors)
		formOpen(ctx, w, "/auth/reset/"+url.PathEscape(token))
		field(ctx, w, "password", "label_new_password", "password", "", "new-password")
		submit(ctx, w, "button_save_password")
	})
}

// Home renders the signed-in landing page.
func Home(page Page) templ.Component {
	return layout("home_title", page, func(ctx context.Context, w *writer) {
		if user := GetUser(ctx); user != nil {
			w.raw(`<p>`)
			w.text(TData(ctx, "home_welcome", map[string]any{"Email": user.Email}))
			w.raw(`</p>`)
		}
		formOpen(ctx, w, "/auth/logout")
		submit(ctx, w, "button_logout")
	})
}
