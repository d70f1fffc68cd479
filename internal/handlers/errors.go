// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	authsvc "github.com/Bean-Machinie/beanmachine/internal/services/auth"
	projectsvc "github.com/Bean-Machinie/beanmachine/internal/services/project"
)

// writeError maps service errors onto the API's error taxonomy and
// writes the JSON error envelope. Unknown errors become opaque 500s.
func writeError(c echo.Context, err error) error {
	var validationErr *projectsvc.ValidationError

	switch {
	case errors.Is(err, authsvc.ErrInvalidEmail),
		errors.Is(err, authsvc.ErrInvalidPassword),
		errors.Is(err, authsvc.ErrInvalidToken):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErr):
		return errorJSON(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, authsvc.ErrEmailNotVerified):
		return errorJSON(c, http.StatusForbidden, err.Error())
	case errors.Is(err, projectsvc.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, authsvc.ErrEmailExists):
		return errorJSON(c, http.StatusConflict, err.Error())
	default:
		slog.Error("request_failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
