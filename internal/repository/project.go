// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/vinovest/sqlx"
)

// All project queries are scoped by the owning user's id. Looking up a
// project by id alone would leak existence across users.

// ListProjectsByUser returns the user's projects, most recently updated
// first, without children hydrated.
func (r *Repository) ListProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.q.SelectContext(ctx, &projects,
		`SELECT * FROM projects WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectForUser retrieves a project owned by the given user.
func (r *Repository) GetProjectForUser(ctx context.Context, userID, projectID string) (*models.Project, error) {
	var project models.Project
	err := r.q.GetContext(ctx, &project,
		`SELECT * FROM projects WHERE id = ? AND user_id = ?`, projectID, userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &project, nil
}

// CreateProject inserts a new project row.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, favorite, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Name, project.Favorite, project.CreatedAt, project.UpdatedAt)
	return err
}

// ProjectUpdate carries partial project changes; nil means unchanged.
type ProjectUpdate struct {
	Name     *string
	Favorite *bool
}

// Empty reports whether the update carries no changes.
func (u ProjectUpdate) Empty() bool {
	return u.Name == nil && u.Favorite == nil
}

// UpdateProject applies only the provided fields and always touches
// updated_at. The row must already be ownership-checked.
func (r *Repository) UpdateProject(ctx context.Context, projectID string, update ProjectUpdate, now time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{now}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, *update.Favorite)
	}

	args = append(args, projectID)
	_, err := r.q.ExecContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

// TouchProject bumps a project's updated_at after a child mutation.
func (r *Repository) TouchProject(ctx context.Context, projectID string, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`, now, projectID)
	return err
}

// CreateProjectItem inserts a new item row.
func (r *Repository) CreateProjectItem(ctx context.Context, item *models.ProjectItem) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO project_items (id, project_id, name, type, variant, custom_details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ProjectID, item.Name, item.Type, item.Variant, item.CustomDetails, item.CreatedAt)
	return err
}

// ListProjectItems returns a project's items in creation order.
func (r *Repository) ListProjectItems(ctx context.Context, projectID string) ([]models.ProjectItem, error) {
	var items []models.ProjectItem
	err := r.q.SelectContext(ctx, &items,
		`SELECT * FROM project_items WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListProjectItemsForUser returns all items across the user's projects,
// used to hydrate the project list in one query.
func (r *Repository) ListProjectItemsForUser(ctx context.Context, userID string) ([]models.ProjectItem, error) {
	var items []models.ProjectItem
	err := r.q.SelectContext(ctx, &items,
		`SELECT pi.* FROM project_items pi
		 JOIN projects p ON p.id = pi.project_id
		 WHERE p.user_id = ? ORDER BY pi.created_at, pi.id`, userID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateProjectAsset inserts a new asset row.
func (r *Repository) CreateProjectAsset(ctx context.Context, asset *models.ProjectAsset) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO project_assets (id, project_id, name, url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		asset.ID, asset.ProjectID, asset.Name, asset.URL, asset.CreatedAt)
	return err
}

// ListProjectAssets returns a project's assets in creation order.
func (r *Repository) ListProjectAssets(ctx context.Context, projectID string) ([]models.ProjectAsset, error) {
	var assets []models.ProjectAsset
	err := r.q.SelectContext(ctx, &assets,
		`SELECT * FROM project_assets WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// ListProjectAssetsForUser returns all assets across the user's projects.
func (r *Repository) ListProjectAssetsForUser(ctx context.Context, userID string) ([]models.ProjectAsset, error) {
	var assets []models.ProjectAsset
	err := r.q.SelectContext(ctx, &assets,
		`SELECT pa.* FROM project_assets pa
		 JOIN projects p ON p.id = pa.project_id
		 WHERE p.user_id = ? ORDER BY pa.created_at, pa.id`, userID)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// DeleteProjectAssets deletes the given asset ids scoped to one project
// and reports how many rows were actually removed.
func (r *Repository) DeleteProjectAssets(ctx context.Context, projectID string, assetIDs []string) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM project_assets WHERE project_id = ? AND id IN (?)`, projectID, assetIDs)
	if err != nil {
		return 0, err
	}

	result, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
