// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bean-Machinie/beanmachine/internal/auth"
	authsvc "github.com/Bean-Machinie/beanmachine/internal/services/auth"
	"github.com/Bean-Machinie/beanmachine/internal/services/session"
)

// AuthHandlers contains handlers for registration, verification and
// session management.
type AuthHandlers struct {
	auth     *authsvc.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *authsvc.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{auth: svc, sessions: sessions}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and triggers the verification mail.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	if _, err := h.auth.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "account created, check your inbox for the verification mail",
	})
}

// VerifyRequest is the request body for email verification.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify confirms an email address with a single-use token.
func (h *AuthHandlers) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	if _, err := h.auth.Verify(c.Request().Context(), req.Token); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "email verified, you can log in now",
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	cookie, err := h.sessions.Create(user.ID, user.Email)
	if err != nil {
		return writeError(c, err)
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// Logout clears the session cookie. Idempotent.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated identity.
func (h *AuthHandlers) Me(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"user": identity})
}
