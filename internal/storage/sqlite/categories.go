package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// CreateCategory inserts a new category for its owner.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, user_id, name, icon, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		category.ID, category.UserID, category.Name, category.Icon, category.Color, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category := &models.Category{}
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, icon, color, created_at, updated_at FROM categories WHERE id = ?",
		id,
	).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Icon,
		&category.Color,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.CreatedAt = time.Unix(createdAt, 0)
	category.UpdatedAt = time.Unix(updatedAt, 0)
	return category, nil
}

// ListCategories returns the user's categories, newest first.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, icon, color, created_at, updated_at FROM categories WHERE user_id = ? ORDER BY created_at DESC, name ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		var createdAt, updatedAt int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		c.UpdatedAt = time.Unix(updatedAt, 0)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory overwrites the category's name, icon, and color.
// The owner is never changed.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, icon = ?, color = ?, updated_at = ? WHERE id = ?",
		category.Name, category.Icon, category.Color, category.UpdatedAt.Unix(), category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteCategory removes a category. Transactions referencing it keep their
// category_id; reads then surface an empty category name.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}
