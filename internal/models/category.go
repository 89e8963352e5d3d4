package models

import "time"

// Category represents a user-defined transaction category.
// A category belongs to exactly one user, assigned at creation and
// immutable afterwards.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string `json:"id"`

	// UserID references the owning User.
	UserID string `json:"user_id"`

	// Name is the display name (e.g., "Food", "Transport").
	Name string `json:"name"`

	// Icon is a tag the frontend maps to an icon (e.g., "food").
	Icon string `json:"icon"`

	// Color is a hex color string (e.g., "#F9D71C").
	Color string `json:"color"`

	// CreatedAt is when the category was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the category was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultCategories is the starter set provisioned for every new user at
// registration, inside the same transaction as the user insert.
var DefaultCategories = []Category{
	{Name: "Food", Icon: "food", Color: "#F9D71C"},
	{Name: "Transport", Icon: "transport", Color: "#F9D71C"},
	{Name: "Shopping", Icon: "shopping", Color: "#F9D71C"},
	{Name: "Entertainment", Icon: "entertainment", Color: "#F9D71C"},
	{Name: "Health", Icon: "health", Color: "#F9D71C"},
	{Name: "Education", Icon: "education", Color: "#F9D71C"},
	{Name: "Salary", Icon: "salary", Color: "#F9D71C"},
	{Name: "Bills", Icon: "bills", Color: "#F9D71C"},
}
