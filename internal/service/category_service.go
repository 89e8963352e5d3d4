package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// CategoryService manages user-defined categories.
type CategoryService struct {
	store storage.Store
}

// NewCategoryService creates a new CategoryService with the given storage backend.
func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

// CategoryPatch carries a merge-patch update: nil fields keep their stored
// values.
type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

// List returns the caller's categories, newest first.
func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Create adds a new category owned by the caller.
func (s *CategoryService) Create(ctx context.Context, userID, name, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if icon == "" {
		icon = "default"
	}
	if color == "" {
		color = "#000000"
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   icon,
		Color:  color,
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		slog.Error("CreateCategory failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Category created", "category_id", category.ID, "user_id", userID)
	return category, nil
}

// Update applies a merge-patch to a category owned by the caller.
func (s *CategoryService) Update(ctx context.Context, callerID, id string, patch CategoryPatch) (*models.Category, error) {
	category, err := s.assertOwner(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		category.Name = *patch.Name
	}
	// Icon uses presence, not non-emptiness: clearing it back to the
	// frontend default is a legitimate update.
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	if patch.Color != nil && *patch.Color != "" {
		category.Color = *patch.Color
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		slog.Error("UpdateCategory failed", "category_id", id, "error", err)
		return nil, err
	}

	return category, nil
}

// Delete removes a category owned by the caller. Deleting an already-deleted
// category yields ErrNotFound.
func (s *CategoryService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.assertOwner(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		slog.Error("DeleteCategory failed", "category_id", id, "error", err)
		return err
	}

	slog.Info("Category deleted", "category_id", id, "user_id", callerID)
	return nil
}

// assertOwner fetches the category and checks ownership, existence first.
func (s *CategoryService) assertOwner(ctx context.Context, callerID, id string) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if category.UserID != callerID {
		return nil, ErrForbidden
	}
	return category, nil
}
