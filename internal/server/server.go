// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/Bean-Machinie/beanmachine/internal/config"
	"github.com/Bean-Machinie/beanmachine/internal/database"
	"github.com/Bean-Machinie/beanmachine/internal/handlers"
	appmw "github.com/Bean-Machinie/beanmachine/internal/middleware"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	authsvc "github.com/Bean-Machinie/beanmachine/internal/services/auth"
	"github.com/Bean-Machinie/beanmachine/internal/services/email"
	projectsvc "github.com/Bean-Machinie/beanmachine/internal/services/project"
	"github.com/Bean-Machinie/beanmachine/internal/services/session"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Services
	sessions, err := session.NewManager(&cfg.Session, cfg.SecureCookies())
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	var mailer email.Sender
	if cfg.SMTP.Host != "" {
		mailer, err = email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
	} else {
		slog.Warn("no SMTP host configured, verification mail will be logged only")
		mailer = email.LogSender{}
	}

	authService := authsvc.NewService(repo, mailer)
	projectService := projectsvc.NewService(repo)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, repo, authService, projectService, sessions)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, authService *authsvc.Service, projectService *projectsvc.Service, sessions *session.Manager) {
	h := handlers.New()
	authHandlers := handlers.NewAuth(authService, sessions)
	profileHandlers := handlers.NewProfile(repo)
	projectHandlers := handlers.NewProjects(projectService)

	e.GET("/health", h.Health)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandlers.Register)
	authGroup.POST("/verify", authHandlers.Verify)
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/logout", authHandlers.Logout)
	authGroup.GET("/me", authHandlers.Me, appmw.RequireAuth)

	profile := api.Group("/profile", appmw.RequireAuth)
	profile.GET("", profileHandlers.Get)
	profile.PATCH("", profileHandlers.Update)

	projects := api.Group("/projects", appmw.RequireAuth)
	projects.GET("", projectHandlers.List)
	projects.POST("", projectHandlers.Create)
	projects.PATCH("/:id", projectHandlers.Update)
	projects.POST("/:id/items", projectHandlers.AddItem)
	projects.POST("/:id/assets", projectHandlers.AddAssets)
	projects.DELETE("/:id/assets", projectHandlers.RemoveAssets)
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

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
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
