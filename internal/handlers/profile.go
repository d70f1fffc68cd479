// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bean-Machinie/beanmachine/internal/auth"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
)

// ProfileHandlers contains handlers for the user profile.
type ProfileHandlers struct {
	repo *repository.Repository
}

// NewProfile creates a new ProfileHandlers instance.
func NewProfile(repo *repository.Repository) *ProfileHandlers {
	return &ProfileHandlers{repo: repo}
}

// Get returns the user's profile, lazily creating an empty one.
func (h *ProfileHandlers) Get(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	profile, err := h.repo.GetOrCreateProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"profile": profile})
}

// UpdateProfileRequest carries the partial profile update. Absent fields
// stay unchanged; fields set to "" are cleared.
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name"`
	Bio           *string `json:"bio"`
	AvatarURL     *string `json:"avatar_url"`
	WebsiteURL    *string `json:"website_url"`
	DiscordHandle *string `json:"discord_handle"`
	TwitterHandle *string `json:"twitter_handle"`
}

// Update applies a partial update to the user's profile.
func (h *ProfileHandlers) Update(c echo.Context) error {
	identity := auth.GetIdentity(c.Request().Context())

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	update := repository.ProfileUpdate{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarURL:     req.AvatarURL,
		WebsiteURL:    req.WebsiteURL,
		DiscordHandle: req.DiscordHandle,
		TwitterHandle: req.TwitterHandle,
	}
	if update.Empty() {
		return errorJSON(c, http.StatusBadRequest, "at least one profile field is required")
	}

	ctx := c.Request().Context()
	if _, err := h.repo.GetOrCreateProfile(ctx, identity.ID); err != nil {
		return writeError(c, err)
	}
	if err := h.repo.UpdateProfile(ctx, identity.ID, update, nowUTC()); err != nil {
		return writeError(c, err)
	}

	profile, err := h.repo.GetProfile(ctx, identity.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"profile": profile})
}
