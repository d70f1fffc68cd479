// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package handlers contains all HTTP handlers of the JSON API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers contains handlers not tied to a specific service.
type Handlers struct{}

// New creates a new Handlers instance.
func New() *Handlers {
	return &Handlers{}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
