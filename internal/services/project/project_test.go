// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	"github.com/Bean-Machinie/beanmachine/internal/services/project"
	"github.com/Bean-Machinie/beanmachine/internal/testutil"
)

func newService(t *testing.T) (*project.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return project.NewService(repo), repo
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestCreate_WithoutInitialItem(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")

	proj, err := svc.Create(ctx, user.ID, "  Camp  ", nil)
	require.NoError(t, err)

	assert.Equal(t, "Camp", proj.Name)
	assert.False(t, proj.Favorite)
	assert.Empty(t, proj.Items)
	assert.Empty(t, proj.Assets)
	assert.Equal(t, proj.CreatedAt, proj.UpdatedAt)
}

func TestCreate_WithInitialItem(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")

	proj, err := svc.Create(ctx, user.ID, "Camp", &project.ItemParams{
		Name:    "Board1",
		Type:    models.ItemTypeBoard,
		Variant: "Large",
	})
	require.NoError(t, err)

	require.Len(t, proj.Items, 1)
	assert.Equal(t, "Board1", proj.Items[0].Name)
	assert.Equal(t, models.ItemTypeBoard, proj.Items[0].Type)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")

	var validationErr *project.ValidationError

	_, err := svc.Create(ctx, user.ID, "   ", nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Create(ctx, user.ID, "Camp", &project.ItemParams{
		Name:    "Board1",
		Type:    "poster", // not in the enum
		Variant: "Large",
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Create(ctx, user.ID, "Camp", &project.ItemParams{
		Name:    "Board1",
		Type:    models.ItemTypeBoard,
		Variant: "  ",
	})
	require.ErrorAs(t, err, &validationErr)

	// Nothing was persisted by the failed attempts.
	projects, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdate_PartialAndTouches(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.Update(ctx, user.ID, created.ID, project.UpdateParams{Favorite: boolptr(true)})
	require.NoError(t, err)

	assert.Equal(t, "Camp", updated.Name)
	assert.True(t, updated.Favorite)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdate_RequiresAtLeastOneField(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	var validationErr *project.ValidationError
	_, err = svc.Update(ctx, user.ID, created.ID, project.UpdateParams{})
	assert.ErrorAs(t, err, &validationErr)
}

func TestAddItem_TouchesUpdatedAt(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	item, proj, err := svc.AddItem(ctx, user.ID, created.ID, project.ItemParams{
		Name:    "Board1",
		Type:    models.ItemTypeBoard,
		Variant: "Large",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	require.Len(t, proj.Items, 1)
	assert.True(t, proj.UpdatedAt.After(proj.CreatedAt))
}

func TestAddAssets_AtomicAndTouches(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	assets, proj, err := svc.AddAssets(ctx, user.ID, created.ID, []project.AssetParams{
		{Name: "map", URL: "https://example.com/map.png"},
		{Name: "token", URL: "https://example.com/token.png"},
	})
	require.NoError(t, err)

	require.Len(t, assets, 2)
	assert.NotEmpty(t, assets[0].ID)
	require.Len(t, proj.Assets, 2)
	assert.True(t, proj.UpdatedAt.After(created.UpdatedAt))
}

func TestAddAssets_Validation(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	var validationErr *project.ValidationError

	_, _, err = svc.AddAssets(ctx, user.ID, created.ID, nil)
	require.ErrorAs(t, err, &validationErr)

	_, _, err = svc.AddAssets(ctx, user.ID, created.ID, []project.AssetParams{
		{Name: "  ", URL: "https://example.com/map.png"},
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestRemoveAssets_IdempotentNoTouch(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")
	created, err := svc.Create(ctx, user.ID, "Camp", nil)
	require.NoError(t, err)

	assets, withAssets, err := svc.AddAssets(ctx, user.ID, created.ID, []project.AssetParams{
		{Name: "map", URL: "https://example.com/map.png"},
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	// No matching rows: updated_at stays untouched.
	proj, err := svc.RemoveAssets(ctx, user.ID, created.ID, []string{"unknown-id"})
	require.NoError(t, err)
	assert.Equal(t, withAssets.UpdatedAt, proj.UpdatedAt)
	assert.Len(t, proj.Assets, 1)

	// Matching rows: delete and touch.
	proj, err = svc.RemoveAssets(ctx, user.ID, created.ID, []string{assets[0].ID})
	require.NoError(t, err)
	assert.Empty(t, proj.Assets)
	assert.True(t, proj.UpdatedAt.After(withAssets.UpdatedAt))
}

func TestCrossUserAccess_YieldsNotFound(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@x.com")
	intruder := testutil.NewTestUser(t, repo, "intruder@x.com")

	created, err := svc.Create(ctx, owner.ID, "Camp", nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, intruder.ID, created.ID, project.UpdateParams{Name: strptr("Stolen")})
	assert.ErrorIs(t, err, project.ErrNotFound)

	_, _, err = svc.AddItem(ctx, intruder.ID, created.ID, project.ItemParams{
		Name: "Board1", Type: models.ItemTypeBoard, Variant: "Large",
	})
	assert.ErrorIs(t, err, project.ErrNotFound)

	_, _, err = svc.AddAssets(ctx, intruder.ID, created.ID, []project.AssetParams{
		{Name: "map", URL: "https://example.com/map.png"},
	})
	assert.ErrorIs(t, err, project.ErrNotFound)

	_, err = svc.RemoveAssets(ctx, intruder.ID, created.ID, []string{"some-id"})
	assert.ErrorIs(t, err, project.ErrNotFound)

	// The owner's project is untouched by the failed attempts.
	projects, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Camp", projects[0].Name)
	assert.Empty(t, projects[0].Items)
}

func TestList_HydratedAndOrdered(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "a@x.com")

	first, err := svc.Create(ctx, user.ID, "First", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, user.ID, "Second", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	// Mutating the older project moves it to the front.
	_, _, err = svc.AddItem(ctx, user.ID, first.ID, project.ItemParams{
		Name: "Board1", Type: models.ItemTypeBoard, Variant: "Large",
	})
	require.NoError(t, err)

	projects, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, first.ID, projects[0].ID)
	require.Len(t, projects[0].Items, 1)
	assert.Equal(t, second.ID, projects[1].ID)
	assert.Empty(t, projects[1].Items)
	assert.NotNil(t, projects[1].Assets)
}
