// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/uptask/internal/auth"
	"codeberg.org/oliverandrich/uptask/internal/htmx"
	"codeberg.org/oliverandrich/uptask/internal/models"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"github.com/labstack/echo/v4"
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/auth/login"

// SessionLoader resolves the session of a request.
type SessionLoader interface {
	Load(ctx context.Context, r *http.Request) (*models.Session, error)
}

// UserLoader is an interface for loading full user data
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// LoadUser creates middleware that loads the session user into the request
// context. The user is fetched on every request, so deactivated or missing
// accounts are treated as anonymous.
func LoadUser(sessions SessionLoader, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			ctx := r.Context()

			s, err := sessions.Load(ctx, r)
			if err != nil {
				slog.ErrorContext(ctx, "session_load_failed", "error", err)
				return next(c)
			}
			if s == nil {
				return next(c)
			}

			user, err := users.GetUserByID(ctx, s.UserID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					slog.ErrorContext(ctx, "user_load_failed", "user_id", s.UserID, "error", err)
				}
				return next(c)
			}
			if !user.Active {
				return next(c)
			}

			c.SetRequest(r.WithContext(auth.WithUser(ctx, user)))
			return next(c)
		}
	}
}

// RequireAuth middleware redirects unauthenticated users to login
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			htmx.Redirect(c.Response(), c.Request(), LoginPath)
			return nil
		}
		return next(c)
	}
}

// RedirectIfAuthenticated sends signed-in users away from guest-only pages.
func RedirectIfAuthenticated(target string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth.IsAuthenticated(c.Request().Context()) {
				htmx.Redirect(c.Response(), c.Request(), target)
				return nil
			}
			return next(c)
		}
	}
}
