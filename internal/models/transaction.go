package models

import "time"

// Transaction type values.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// ValidTransactionType reports whether t is one of the allowed type values.
func ValidTransactionType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single income or expense entry.
// A transaction belongs to exactly one user and references a category.
// The category is not required to belong to the same user; reads populate
// CategoryName from whatever category the ID resolves to.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// UserID references the owning User.
	UserID string `json:"user_id"`

	// Description is a short free-text label (e.g., "Coffee").
	Description string `json:"description"`

	// Amount is the transaction amount. Always > 0; whether it adds or
	// subtracts is determined by Type.
	Amount float64 `json:"amount"`

	// Type is either "income" or "expense".
	Type string `json:"type"`

	// CategoryID references a Category.
	CategoryID string `json:"category_id"`

	// CategoryName is populated on reads by joining the categories table.
	// Empty if the referenced category no longer exists.
	CategoryName string `json:"category_name"`

	// Date is the day the transaction occurred.
	Date time.Time `json:"date"`

	// CreatedAt is when the transaction was recorded.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the transaction was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
