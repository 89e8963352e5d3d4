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

const transactionColumns = `
	t.id, t.user_id, t.description, t.amount, t.type, t.category_id,
	COALESCE(c.name, ''), t.date, t.created_at, t.updated_at
`

// CreateTransaction inserts a new transaction for its owner.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (id, user_id, description, amount, type, category_id, date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		tx.ID, tx.UserID, tx.Description, tx.Amount, tx.Type, tx.CategoryID, tx.Date.Unix(), now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID with its category name populated.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions t LEFT JOIN categories c ON c.id = t.category_id WHERE t.id = ?",
		id,
	)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns the user's transactions, most recent date first,
// with category names populated via a join.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions t LEFT JOIN categories c ON c.id = t.category_id WHERE t.user_id = ? ORDER BY t.date DESC, t.created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction overwrites the transaction's mutable fields.
// The owner is never changed.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET description = ?, amount = ?, type = ?, category_id = ?, date = ?, updated_at = ? WHERE id = ?",
		tx.Description, tx.Amount, tx.Type, tx.CategoryID, tx.Date.Unix(), tx.UpdatedAt.Unix(), tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
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

// DeleteTransaction removes a transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var date, createdAt, updatedAt int64
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Description,
		&tx.Amount,
		&tx.Type,
		&tx.CategoryID,
		&tx.CategoryName,
		&date,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Date = time.Unix(date, 0).UTC()
	tx.CreatedAt = time.Unix(createdAt, 0)
	tx.UpdatedAt = time.Unix(updatedAt, 0)
	return tx, nil
}
