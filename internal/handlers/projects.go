// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bean-Machinie/beanmachine/internal/auth"
	projectsvc "github.com/Bean-Machinie/beanmachine/internal/services/project"
)

// ProjectHandlers contains handlers for projects, items and assets.
type ProjectHandlers struct {
	projects *projectsvc.Service
}

// NewProjects creates a new ProjectHandlers instance.
func NewProjects(svc *projectsvc.Service) *ProjectHandlers {
	return &ProjectHandlers{projects: svc}
}

// List returns the user's projects with items and assets hydrated.
func (h *ProjectHandlers) List(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	projects, err := h.projects.List(c.Request().Context(), identity.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"projects": projects})
}

// ItemRequest describes an item in a request body.
type ItemRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Variant       string  `json:"variant"`
	CustomDetails *string `json:"customDetails"`
}

func (r *ItemRequest) params() projectsvc.ItemParams {
	return projectsvc.ItemParams{
		Name:          r.Name,
		Type:          r.Type,
		Variant:       r.Variant,
		CustomDetails: r.CustomDetails,
	}
}

// CreateProjectRequest is the request body for project creation.
type CreateProjectRequest struct {
	Name        string       `json:"name"`
	InitialItem *ItemRequest `json:"initialItem"`
}

// Create creates a project with an optional initial item.
func (h *ProjectHandlers) Create(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	var initialItem *projectsvc.ItemParams
	if req.InitialItem != nil {
		params := req.InitialItem.params()
		initialItem = &params
	}

	proj, err := h.projects.Create(c.Request().Context(), identity.ID, req.Name, initialItem)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"project": proj})
}

// UpdateProjectRequest carries the partial project update.
type UpdateProjectRequest struct {
	Name     *string `json:"name"`
	Favorite *bool   `json:"favorite"`
}

// Update renames and/or (un)favorites a project.
func (h *ProjectHandlers) Update(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	proj, err := h.projects.Update(c.Request().Context(), identity.ID, c.Param("id"),
		projectsvc.UpdateParams{Name: req.Name, Favorite: req.Favorite})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"project": proj})
}

// AddItem appends an item to a project.
func (h *ProjectHandlers) AddItem(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	item, proj, err := h.projects.AddItem(c.Request().Context(), identity.ID, c.Param("id"), req.params())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"item": item, "project": proj})
}

// AssetRequest describes an asset in a request body.
type AssetRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AddAssetsRequest is the request body for adding assets.
type AddAssetsRequest struct {
	Assets []AssetRequest `json:"assets"`
}

// AddAssets appends one or more assets to a project.
func (h *ProjectHandlers) AddAssets(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req AddAssetsRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	params := make([]projectsvc.AssetParams, 0, len(req.Assets))
	for _, a := range req.Assets {
		params = append(params, projectsvc.AssetParams{Name: a.Name, URL: a.URL})
	}

	assets, proj, err := h.projects.AddAssets(c.Request().Context(), identity.ID, c.Param("id"), params)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"assets": assets, "project": proj})
}

// RemoveAssetsRequest is the request body for batch asset deletion.
type RemoveAssetsRequest struct {
	AssetIDs []string `json:"assetIds"`
}

// RemoveAssets deletes assets from a project. Unknown ids are ignored.
func (h *ProjectHandlers) RemoveAssets(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req RemoveAssetsRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	proj, err := h.projects.RemoveAssets(c.Request().Context(), identity.ID, c.Param("id"), req.AssetIDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"project": proj})
}
