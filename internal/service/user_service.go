package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// UserService manages user profiles.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// ProfilePatch carries a merge-patch profile update. A non-nil Password is
// re-hashed before storage.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

// Profile returns the caller's own user record.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies a merge-patch to the caller's profile. An email
// change keeps the lowercase-unique invariant; a password change re-hashes.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		user.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != user.Email {
			existing, err := s.store.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, auth.ErrEmailExists
			}
			user.Email = email
		}
	}
	if patch.Password != nil && *patch.Password != "" {
		if len(*patch.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("UpdateUser failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Profile updated", "user_id", userID)
	return user, nil
}

// DeleteAccount removes the caller's account. The storage layer cascades
// the delete to the user's categories and transactions.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		slog.Error("DeleteUser failed", "user_id", userID, "error", err)
		return err
	}

	slog.Info("Account deleted", "user_id", userID)
	return nil
}
