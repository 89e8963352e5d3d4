package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address, stored lowercase and unique.
	// Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
