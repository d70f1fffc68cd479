// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Bean-Machinie/beanmachine/internal/models"
)

// CreateProfile inserts an empty profile row for a user.
func (r *Repository) CreateProfile(ctx context.Context, userID string, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO profiles (user_id, updated_at) VALUES (?, ?)`,
		userID, now)
	return err
}

// GetProfile retrieves the profile of a user.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.q.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE user_id = ?`, userID); err != nil {
		return nil, wrapError(err)
	}
	return &profile, nil
}

// GetOrCreateProfile retrieves the profile of a user, lazily creating an
// empty one if it does not exist yet.
func (r *Repository) GetOrCreateProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := r.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.CreateProfile(ctx, userID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, userID)
}

// ProfileUpdate carries partial profile changes. A nil field means
// "leave unchanged"; a pointer to the empty string clears the field.
type ProfileUpdate struct {
	DisplayName   *string
	Bio           *string
	AvatarURL     *string
	WebsiteURL    *string
	DiscordHandle *string
	TwitterHandle *string
}

// Empty reports whether the update carries no changes.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.AvatarURL == nil &&
		u.WebsiteURL == nil && u.DiscordHandle == nil && u.TwitterHandle == nil
}

// UpdateProfile applies only the provided fields and touches updated_at.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate, now time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{now}

	columns := []struct {
		name  string
		value *string
	}{
		{"display_name", update.DisplayName},
		{"bio", update.Bio},
		{"avatar_url", update.AvatarURL},
		{"website_url", update.WebsiteURL},
		{"discord_handle", update.DiscordHandle},
		{"twitter_handle", update.TwitterHandle},
	}
	for _, col := range columns {
		if col.value != nil {
			sets = append(sets, col.name+" = ?")
			args = append(args, *col.value)
		}
	}

	args = append(args, userID)
	_, err := r.q.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`, args...)
	return err
}
