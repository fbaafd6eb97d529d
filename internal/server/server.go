// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/database"
	"codeberg.org/oliverandrich/uptask/internal/flash"
	"codeberg.org/oliverandrich/uptask/internal/handlers"
	"codeberg.org/oliverandrich/uptask/internal/i18n"
	"codeberg.org/oliverandrich/uptask/internal/middleware"
	"codeberg.org/oliverandrich/uptask/internal/repository"
	"codeberg.org/oliverandrich/uptask/internal/services/auth"
	"codeberg.org/oliverandrich/uptask/internal/services/email"
	"codeberg.org/oliverandrich/uptask/internal/services/password"
	"codeberg.org/oliverandrich/uptask/internal/services/session"
	"codeberg.org/oliverandrich/uptask/internal/services/token"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

const purgeInterval = time.Hour

// app holds the wired HTTP server and the services that run beside it.
type app struct {
	echo     *echo.Echo
	sessions *session.Manager
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flush := setupLogger(&cfg.Log)
	defer flush()

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"confirmation_mode", cfg.Auth.ConfirmationMode,
		"mail_transport", cfg.Mail.Transport,
	)

	// Database, migrations included
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	transport, err := email.NewTransport(&cfg.Mail)
	if err != nil {
		return fmt.Errorf("failed to set up mail transport: %w", err)
	}

	a, err := newApp(cfg, db, transport)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx, a.sessions, purgeInterval)

	return startWithGracefulShutdown(ctx, a.echo, cfg)
}

// newApp wires repositories, services, middleware and routes.
func newApp(cfg *config.Config, db *sqlx.DB, transport email.Transport) (*app, error) {
	repo := repository.New(db)
	secure := strings.HasPrefix(cfg.Server.BaseURL, "https://")

	sessions, err := session.NewManager(&cfg.Session, secure, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to set up sessions: %w", err)
	}

	hashKey, blockKey := sessions.CookieKeys()
	flashes := flash.NewStore(hashKey, blockKey, secure)

	authSvc := auth.NewService(
		repo,
		email.NewService(transport, cfg.Mail.SendTimeout),
		password.NewHasher(cfg.Auth.BcryptCost),
		token.NewIssuer(cfg.Auth.ResetTokenTTL),
		&cfg.Auth,
		cfg.Server.BaseURL,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, handlers.New(repo, authSvc, sessions, flashes))

	return &app{echo: e, sessions: sessions}, nil
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)
	e.GET("/", h.Home, middleware.RequireAuth)

	guest := middleware.RedirectIfAuthenticated("/")

	a := e.Group("/auth")
	a.GET("/login", h.LoginPage, guest)
	a.POST("/login", h.Login, guest)
	a.POST("/logout", h.Logout)
	a.GET("/signup", h.SignupPage, guest)
	a.POST("/signup", h.Signup, guest)
	a.GET("/confirm/:locator", h.Confirm)
	a.GET("/reset", h.ResetRequestPage, guest)
	a.POST("/reset", h.ResetRequest, guest)
	a.GET("/reset/:token", h.ResetForm, guest)
	a.POST("/reset/:token", h.ResetPassword, guest)
}

// purgeSessions deletes expired session rows until ctx is done.
func purgeSessions(ctx context.Context, sessions *session.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "sessions_purged", "count", n)
			}
		}
	}
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
