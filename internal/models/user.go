// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package models defines the persistent data structures.
package models

import "time"

// User is the identity record created on registration.
// VerificationToken holds the SHA-256 hex of the issued token and is
// cleared exactly once on successful verification.
type User struct { //nolint:govet // fieldalignment not critical for models
	ID                string     `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	VerificationToken *string    `db:"verification_token" json:"-"`
	EmailVerifiedAt   *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Verified reports whether the user's email address has been confirmed.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}
