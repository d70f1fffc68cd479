// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package models

import "time"

// Profile is the 1:1 companion record of a User. All presentation
// fields are nullable and default to null.
type Profile struct { //nolint:govet // fieldalignment not critical for models
	UserID        string    `db:"user_id" json:"-"`
	DisplayName   *string   `db:"display_name" json:"display_name"`
	Bio           *string   `db:"bio" json:"bio"`
	AvatarURL     *string   `db:"avatar_url" json:"avatar_url"`
	WebsiteURL    *string   `db:"website_url" json:"website_url"`
	DiscordHandle *string   `db:"discord_handle" json:"discord_handle"`
	TwitterHandle *string   `db:"twitter_handle" json:"twitter_handle"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
