package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// TransactionService manages income and expense transactions.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService with the given storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// TransactionPatch carries a merge-patch update: nil fields keep their
// stored values. Amount is a pointer so a present-but-changed amount is
// distinguishable from an absent one.
type TransactionPatch struct {
	Description *string
	Amount      *float64
	Type        *string
	CategoryID  *string
	Date        *time.Time
}

// List returns the caller's transactions, most recent date first, with
// category names populated.
func (s *TransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// Create records a new transaction owned by the caller.
//
// The category reference is not checked against the caller's ownership:
// the original system allowed attaching any category id, and reads simply
// resolve whatever name the id points at.
func (s *TransactionService) Create(ctx context.Context, userID string, tx *models.Transaction) (*models.Transaction, error) {
	tx.UserID = userID
	if err := validateTransaction(tx.Description, tx.Amount, tx.Type, tx.CategoryID, tx.Date); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("CreateTransaction failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Transaction created", "transaction_id", tx.ID, "user_id", userID, "type", tx.Type)

	// Re-read so the response carries the category name.
	return s.store.GetTransaction(ctx, tx.ID)
}

// Update applies a merge-patch to a transaction owned by the caller.
func (s *TransactionService) Update(ctx context.Context, callerID, id string, patch TransactionPatch) (*models.Transaction, error) {
	tx, err := s.assertOwner(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil && *patch.Description != "" {
		tx.Description = *patch.Description
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Type != nil && *patch.Type != "" {
		tx.Type = *patch.Type
	}
	if patch.CategoryID != nil && *patch.CategoryID != "" {
		tx.CategoryID = *patch.CategoryID
	}
	if patch.Date != nil {
		tx.Date = *patch.Date
	}

	if err := validateTransaction(tx.Description, tx.Amount, tx.Type, tx.CategoryID, tx.Date); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		slog.Error("UpdateTransaction failed", "transaction_id", id, "error", err)
		return nil, err
	}

	return s.store.GetTransaction(ctx, id)
}

// Delete removes a transaction owned by the caller. Repeating a delete
// yields ErrNotFound, never a crash.
func (s *TransactionService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.assertOwner(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", id, "error", err)
		return err
	}

	slog.Info("Transaction deleted", "transaction_id", id, "user_id", callerID)
	return nil
}

// assertOwner fetches the transaction and checks ownership, existence first.
func (s *TransactionService) assertOwner(ctx context.Context, callerID, id string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tx.UserID != callerID {
		return nil, ErrForbidden
	}
	return tx, nil
}

// validateTransaction enforces the domain invariants regardless of what the
// handler layer already checked.
func validateTransaction(description string, amount float64, txType, categoryID string, date time.Time) error {
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if !models.ValidTransactionType(txType) {
		return fmt.Errorf("%w: type must be either income or expense", ErrValidation)
	}
	if categoryID == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}
