// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/uptask/internal/flash"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"codeberg.org/oliverandrich/uptask/internal/services/auth"
	"codeberg.org/oliverandrich/uptask/internal/services/session"
	"codeberg.org/oliverandrich/uptask/internal/templates"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo     *repository.Repository
	auth     *auth.Service
	sessions *session.Manager
	flashes  *flash.Store
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, authSvc *auth.Service, sessions *session.Manager, flashes *flash.Store) *Handlers {
	return &Handlers{
		repo:     repo,
		auth:     authSvc,
		sessions: sessions,
		flashes:  flashes,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if h.repo != nil {
		if err := h.repo.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the home page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home(h.page(c)))
}
