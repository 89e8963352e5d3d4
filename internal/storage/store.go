// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/fintrack/internal/models"
)

// ErrNotFound is returned when a record does not exist. Callers should
// match it with errors.Is.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for fintrack storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// All list operations are scoped by owner: they take a userID and only ever
// return that user's records.
type Store interface {
	// CreateUser persists a new user and the seed categories in a single
	// transaction. The user.ID and timestamps are populated by the store.
	CreateUser(ctx context.Context, user *models.User, seed []models.Category) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when the
	// email is unknown, so lookups stay distinguishable from storage errors.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser overwrites the user's name, email, and password hash.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes the user. Foreign keys cascade the delete to the
	// user's categories and transactions.
	DeleteUser(ctx context.Context, id string) error

	// CreateCategory persists a new category. ID and timestamps are
	// populated by the store.
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategory retrieves a category by ID. Returns ErrNotFound when absent.
	GetCategory(ctx context.Context, id string) (*models.Category, error)

	// ListCategories returns the user's categories, newest first.
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)

	// UpdateCategory overwrites the category's name, icon, and color.
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory removes a category. Returns ErrNotFound when absent.
	DeleteCategory(ctx context.Context, id string) error

	// CreateTransaction persists a new transaction. ID and timestamps are
	// populated by the store.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID with its category name
	// populated. Returns ErrNotFound when absent.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactions returns the user's transactions, most recent date
	// first, with category names populated.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// UpdateTransaction overwrites the transaction's mutable fields.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a transaction. Returns ErrNotFound when absent.
	DeleteTransaction(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
