// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/Bean-Machinie/beanmachine/internal/models"
)

// CreateUser inserts a new user row. A collision on the unique email
// column is reported as ErrDuplicateEmail, so concurrent registrations
// for the same address resolve at the constraint rather than racing a
// prior existence check.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, verification_token, email_verified_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.VerificationToken, user.EmailVerifiedAt, user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.q.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their normalized email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.q.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByVerificationToken retrieves a user by the stored token hash.
func (r *Repository) GetUserByVerificationToken(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	if err := r.q.GetContext(ctx, &user,
		`SELECT * FROM users WHERE verification_token = ?`, tokenHash); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// MarkUserVerified sets the verification timestamp and clears the token
// so it cannot be replayed.
func (r *Repository) MarkUserVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET email_verified_at = ?, verification_token = NULL WHERE id = ?`,
		verifiedAt, id)
	return err
}

// DeleteUser deletes a user row; dependent rows cascade.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
