// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"

	"codeberg.org/oliverandrich/uptask/internal/flash"
	"codeberg.org/oliverandrich/uptask/internal/htmx"
	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/templates"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// page collects the flash messages left by the previous request.
func (h *Handlers) page(c echo.Context) templates.Page {
	return templates.Page{Flashes: h.flashes.Pop(c)}
}

// redirect sends the client to url after a form post.
func redirect(c echo.Context, url string) error {
	htmx.Redirect(c.Response(), c.Request(), url)
	return nil
}

// redirectWithFlash stores a translated flash message and redirects.
func (h *Handlers) redirectWithFlash(c echo.Context, kind flash.Kind, messageID, url string) error {
	text := i18n.T(c.Request().Context(), messageID)
	if err := h.flashes.Add(c, kind, text); err != nil {
		slog.WarnContext(c.Request().Context(), "flash_failed", "error", err)
	}
	return redirect(c, url)
}
