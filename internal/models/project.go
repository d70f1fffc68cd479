// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package models

import "time"

// Item types a project can contain.
const (
	ItemTypeBoard       = "board"
	ItemTypeCardDeck    = "cardDeck"
	ItemTypeQuestPoster = "questPoster"
	ItemTypeCustom      = "custom"
)

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeBoard, ItemTypeCardDeck, ItemTypeQuestPoster, ItemTypeCustom:
		return true
	}
	return false
}

// Project belongs to exactly one user. UpdatedAt reflects the most
// recent write to the project or any of its owned items/assets.
type Project struct { //nolint:govet // fieldalignment not critical for models
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Favorite  bool      `db:"favorite" json:"favorite"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Items  []ProjectItem  `db:"-" json:"items"`
	Assets []ProjectAsset `db:"-" json:"assets"`
}

// ProjectItem is immutable after creation.
type ProjectItem struct { //nolint:govet // fieldalignment not critical for models
	ID            string    `db:"id" json:"id"`
	ProjectID     string    `db:"project_id" json:"-"`
	Name          string    `db:"name" json:"name"`
	Type          string    `db:"type" json:"type"`
	Variant       string    `db:"variant" json:"variant"`
	CustomDetails *string   `db:"custom_details" json:"custom_details,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ProjectAsset is an image reference owned by a project.
type ProjectAsset struct { //nolint:govet // fieldalignment not critical for models
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
