// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package project enforces per-user ownership and consistency rules on
// projects, their items and their image assets.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
)

// ErrNotFound is returned when a project does not exist for the
// requesting user. A project owned by somebody else yields the same
// error, so existence never leaks across accounts.
var ErrNotFound = errors.New("project not found")

// ValidationError marks invalid client input, detected before any write.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ItemParams describes a project item to create.
type ItemParams struct {
	Name          string
	Type          string
	Variant       string
	CustomDetails *string
}

// AssetParams describes an image asset to create.
type AssetParams struct {
	Name string
	URL  string
}

// UpdateParams carries a partial project update; nil means unchanged.
type UpdateParams struct {
	Name     *string
	Favorite *bool
}

// Service implements the project/asset operations.
type Service struct {
	repo *repository.Repository
}

// NewService creates a new project service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns all projects owned by the user, hydrated with their
// items and assets, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Project, error) {
	projects, err := s.repo.ListProjectsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	items, err := s.repo.ListProjectItemsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	assets, err := s.repo.ListProjectAssetsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	byID := make(map[string]*models.Project, len(projects))
	for i := range projects {
		projects[i].Items = []models.ProjectItem{}
		projects[i].Assets = []models.ProjectAsset{}
		byID[projects[i].ID] = &projects[i]
	}
	for _, item := range items {
		if p, ok := byID[item.ProjectID]; ok {
			p.Items = append(p.Items, item)
		}
	}
	for _, asset := range assets {
		if p, ok := byID[asset.ProjectID]; ok {
			p.Assets = append(p.Assets, asset)
		}
	}

	return projects, nil
}

// Create creates a project, optionally with one initial item, as a
// single atomic unit. Returns the fully hydrated project.
func (s *Service) Create(ctx context.Context, userID, name string, initialItem *ItemParams) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("project name is required")
	}
	if initialItem != nil {
		if err := validateItem(initialItem); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	proj := &models.Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Tx(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateProject(ctx, proj); err != nil {
			return err
		}
		if initialItem != nil {
			return tx.CreateProjectItem(ctx, newItem(proj.ID, initialItem, now))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project_created", "user_id", userID, "project_id", proj.ID)
	return s.hydrate(ctx, proj)
}

// Update applies a partial update to an owned project. At least one
// field must be provided; updated_at is always touched.
func (s *Service) Update(ctx context.Context, userID, projectID string, update UpdateParams) (*models.Project, error) {
	if update.Name == nil && update.Favorite == nil {
		return nil, validationErrorf("at least one of name or favorite is required")
	}
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, validationErrorf("project name must not be empty")
		}
		update.Name = &trimmed
	}

	proj, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	repoUpdate := repository.ProjectUpdate{Name: update.Name, Favorite: update.Favorite}
	if err := s.repo.UpdateProject(ctx, proj.ID, repoUpdate, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.reload(ctx, userID, projectID)
}

// AddItem appends an item to an owned project and touches the project's
// updated_at in the same transaction.
func (s *Service) AddItem(ctx context.Context, userID, projectID string, params ItemParams) (*models.ProjectItem, *models.Project, error) {
	if err := validateItem(&params); err != nil {
		return nil, nil, err
	}

	proj, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	item := newItem(proj.ID, &params, now)

	err = s.repo.Tx(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateProjectItem(ctx, item); err != nil {
			return err
		}
		return tx.TouchProject(ctx, proj.ID, now)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add item: %w", err)
	}

	hydrated, err := s.reload(ctx, userID, projectID)
	if err != nil {
		return nil, nil, err
	}
	return item, hydrated, nil
}

// AddAssets appends one or more assets to an owned project atomically.
func (s *Service) AddAssets(ctx context.Context, userID, projectID string, params []AssetParams) ([]models.ProjectAsset, *models.Project, error) {
	if len(params) == 0 {
		return nil, nil, validationErrorf("at least one asset is required")
	}
	for i := range params {
		params[i].Name = strings.TrimSpace(params[i].Name)
		params[i].URL = strings.TrimSpace(params[i].URL)
		if params[i].Name == "" || params[i].URL == "" {
			return nil, nil, validationErrorf("asset name and url are required")
		}
	}

	proj, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	assets := make([]models.ProjectAsset, 0, len(params))
	for _, p := range params {
		assets = append(assets, models.ProjectAsset{
			ID:        uuid.NewString(),
			ProjectID: proj.ID,
			Name:      p.Name,
			URL:       p.URL,
			CreatedAt: now,
		})
	}

	err = s.repo.Tx(ctx, func(tx *repository.Repository) error {
		for i := range assets {
			if err := tx.CreateProjectAsset(ctx, &assets[i]); err != nil {
				return err
			}
		}
		return tx.TouchProject(ctx, proj.ID, now)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add assets: %w", err)
	}

	hydrated, err := s.reload(ctx, userID, projectID)
	if err != nil {
		return nil, nil, err
	}
	return assets, hydrated, nil
}

// RemoveAssets deletes the given assets from an owned project. The
// project's updated_at is only touched when at least one row was
// actually removed, so deleting unknown ids is an idempotent no-op.
func (s *Service) RemoveAssets(ctx context.Context, userID, projectID string, assetIDs []string) (*models.Project, error) {
	if len(assetIDs) == 0 {
		return nil, validationErrorf("at least one asset id is required")
	}

	proj, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.repo.Tx(ctx, func(tx *repository.Repository) error {
		deleted, err := tx.DeleteProjectAssets(ctx, proj.ID, assetIDs)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return nil
		}
		return tx.TouchProject(ctx, proj.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove assets: %w", err)
	}

	return s.reload(ctx, userID, projectID)
}

// ownedProject resolves a project scoped to its owner.
func (s *Service) ownedProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	proj, err := s.repo.GetProjectForUser(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// reload fetches a hydrated copy of an owned project.
func (s *Service) reload(ctx context.Context, userID, projectID string) (*models.Project, error) {
	proj, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, proj)
}

// hydrate attaches items and assets to a project.
func (s *Service) hydrate(ctx context.Context, proj *models.Project) (*models.Project, error) {
	items, err := s.repo.ListProjectItems(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	assets, err := s.repo.ListProjectAssets(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	proj.Items = items
	proj.Assets = assets
	if proj.Items == nil {
		proj.Items = []models.ProjectItem{}
	}
	if proj.Assets == nil {
		proj.Assets = []models.ProjectAsset{}
	}
	return proj, nil
}

func validateItem(params *ItemParams) error {
	params.Name = strings.TrimSpace(params.Name)
	params.Variant = strings.TrimSpace(params.Variant)

	if params.Name == "" {
		return validationErrorf("item name is required")
	}
	if !models.ValidItemType(params.Type) {
		return validationErrorf("unknown item type %q", params.Type)
	}
	if params.Variant == "" {
		return validationErrorf("item variant is required")
	}
	return nil
}

func newItem(projectID string, params *ItemParams, now time.Time) *models.ProjectItem {
	return &models.ProjectItem{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Name:          params.Name,
		Type:          params.Type,
		Variant:       params.Variant,
		CustomDetails: params.CustomDetails,
		CreatedAt:     now,
	}
}
