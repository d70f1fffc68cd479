// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	"github.com/Bean-Machinie/beanmachine/internal/testutil"
)

func newUnverifiedUser(t *testing.T, repo *repository.Repository, email, tokenHash string) *models.User {
	t.Helper()
	user := &models.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      "irrelevant",
		VerificationToken: &tokenHash,
		CreatedAt:         time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestCreateUserAndGetByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := newUnverifiedUser(t, repo, "test@example.com", "hash1")

	user, err := repo.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.False(t, user.Verified())
	require.NotNil(t, user.VerificationToken)
	assert.Equal(t, "hash1", *user.VerificationToken)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	newUnverifiedUser(t, repo, "test@example.com", "hash1")

	dup := &models.User{
		ID:           uuid.NewString(),
		Email:        "test@example.com",
		PasswordHash: "irrelevant",
		CreatedAt:    time.Now().UTC(),
	}
	err := repo.CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByVerificationToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := newUnverifiedUser(t, repo, "test@example.com", "hash1")

	user, err := repo.GetUserByVerificationToken(ctx, "hash1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetUserByVerificationToken(ctx, "unknown")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMarkUserVerified_ClearsToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := newUnverifiedUser(t, repo, "test@example.com", "hash1")

	err := repo.MarkUserVerified(ctx, created.ID, time.Now().UTC())
	require.NoError(t, err)

	user, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, user.Verified())
	assert.Nil(t, user.VerificationToken)

	// The token cannot be used a second time.
	_, err = repo.GetUserByVerificationToken(ctx, "hash1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteUser_CascadesDependents(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "test@example.com")
	proj := testutil.NewTestProject(t, repo, user.ID, "Camp")

	require.NoError(t, repo.DeleteUser(ctx, user.ID))

	_, err := repo.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetProjectForUser(ctx, user.ID, proj.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
