// Package models defines the core domain models for fintrack.
//
// # Models
//
//   - User: a registered account; owns categories and transactions
//   - Category: a user-defined label for transactions (name, icon, color)
//   - Transaction: a single income or expense entry against a category
//
// # Ownership
//
// Every Category and Transaction carries the UserID of its owner, assigned
// at creation and immutable afterwards. Services enforce that mutations only
// succeed when the caller matches the owner, and list queries are always
// scoped to the caller's UserID.
//
// # Design Principles
//
//  1. **Plain data**: models hold no behavior; password hashing and token
//     minting live in the auth package, persistence in storage
//  2. **Avoid circular references**: relationships use ID strings, not
//     pointers to other models
//  3. **IDs are UUID strings**, generated by the storage layer on insert
package models
