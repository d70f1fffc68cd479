// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package middleware provides Echo middleware for request authentication.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bean-Machinie/beanmachine/internal/auth"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	"github.com/Bean-Machinie/beanmachine/internal/services/session"
)

// LoadUser resolves the request identity from the session cookie on
// every request. A missing cookie proceeds unauthenticated; an invalid
// or stale one is cleared and the request also proceeds
// unauthenticated. This middleware never fails the request itself.
func LoadUser(sessions *session.Manager, repo *repository.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil {
				return next(c)
			}

			claims, err := sessions.Parse(cookie)
			if err != nil {
				// Bad signature or expired; drop the cookie.
				c.SetCookie(sessions.Clear())
				return next(c)
			}

			user, err := repo.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					c.SetCookie(sessions.Clear())
					return next(c)
				}
				return internalError(c, err)
			}
			if !user.Verified() {
				c.SetCookie(sessions.Clear())
				return next(c)
			}

			profile, err := repo.GetOrCreateProfile(c.Request().Context(), user.ID)
			if err != nil {
				return internalError(c, err)
			}

			identity := &auth.Identity{
				ID:      user.ID,
				Email:   user.Email,
				Profile: profile,
			}
			ctx := auth.SetIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// internalError answers a store failure with the same opaque JSON
// envelope the handlers use, so middleware errors don't fall through to
// Echo's default {"message": ...} shape.
func internalError(c echo.Context, err error) error {
	slog.Error("request_failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// RequireAuth rejects requests without a resolved identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		return next(c)
	}
}
