// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/ctxkeys"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "warn", "json"))

	logger.Info("hidden")
	logger.Warn("login_failed", "reason", "invalid_password")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"login_failed"`)
	assert.Contains(t, buf.String(), `"reason":"invalid_password"`)
}

func TestCsrfMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(csrfMiddleware(&config.Config{Server: config.ServerConfig{BaseURL: "http://localhost:8080"}}))
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("health is exempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("rejects a post with a wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-CSRF-Token", "forged")
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: "genuine"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("accepts the matching token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-CSRF-Token", "genuine")
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: "genuine"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCsrfMiddleware_HTTPSCookie(t *testing.T) {
	e := echo.New()
	e.Use(csrfMiddleware(&config.Config{Server: config.ServerConfig{BaseURL: "https://example.com"}}))
	e.GET("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_csrf", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCsrfToContext(t *testing.T) {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("csrf", "test-token")
			return next(c)
		}
	})
	e.Use(csrfToContext())

	var csrfToken string
	e.GET("/", func(c echo.Context) error {
		if token, ok := c.Request().Context().Value(ctxkeys.CSRFToken{}).(string); ok {
			csrfToken = token
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-token", csrfToken)
}

func TestCsrfToContext_NoToken(t *testing.T) {
	e := echo.New()
	e.Use(csrfToContext())

	found := true
	e.GET("/", func(c echo.Context) error {
		_, found = c.Request().Context().Value(ctxkeys.CSRFToken{}).(string)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, found)
}

func TestMaxBodySize(t *testing.T) {
	assert.Equal(t, 1, maxBodySize(&config.Config{}))
	assert.Equal(t, 4, maxBodySize(&config.Config{Server: config.ServerConfig{MaxBodySize: 4}}))
}
