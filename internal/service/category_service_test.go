package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
	"github.com/mmynk/fintrack/internal/storage/sqlite"
)

// newTestStore creates a SQLite store in a temp directory with two users
// registered, each with the default seed categories.
func newTestStore(t *testing.T) (storage.Store, *models.User, *models.User) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ann := &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash-a"}
	bob := &models.User{Name: "Bob", Email: "bob@x.com", PasswordHash: "hash-b"}
	require.NoError(t, store.CreateUser(context.Background(), ann, models.DefaultCategories))
	require.NoError(t, store.CreateUser(context.Background(), bob, models.DefaultCategories))

	return store, ann, bob
}

func strPtr(s string) *string { return &s }

func TestCategoryService_Create(t *testing.T) {
	store, ann, _ := newTestStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	t.Run("assigns owner at creation", func(t *testing.T) {
		category, err := svc.Create(ctx, ann.ID, "Travel", "travel", "#123ABC")
		require.NoError(t, err)
		assert.Equal(t, ann.ID, category.UserID)
		assert.NotEmpty(t, category.ID)
	})

	t.Run("defaults icon and color", func(t *testing.T) {
		category, err := svc.Create(ctx, ann.ID, "Misc", "", "")
		require.NoError(t, err)
		assert.Equal(t, "default", category.Icon)
		assert.Equal(t, "#000000", category.Color)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, ann.ID, "", "x", "#111111")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCategoryService_Ownership(t *testing.T) {
	store, ann, bob := newTestStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	category, err := svc.Create(ctx, ann.ID, "Travel", "travel", "#123ABC")
	require.NoError(t, err)

	t.Run("other user cannot update", func(t *testing.T) {
		_, err := svc.Update(ctx, bob.ID, category.ID, CategoryPatch{Name: strPtr("Hijacked")})
		assert.ErrorIs(t, err, ErrForbidden)

		unchanged, err := store.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Travel", unchanged.Name)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, bob.ID, category.ID), ErrForbidden)
	})

	t.Run("missing id is not found, checked before ownership", func(t *testing.T) {
		_, err := svc.Update(ctx, bob.ID, "no-such-id", CategoryPatch{Name: strPtr("X")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list never returns other users' categories", func(t *testing.T) {
		bobCategories, err := svc.List(ctx, bob.ID)
		require.NoError(t, err)
		for _, c := range bobCategories {
			assert.Equal(t, bob.ID, c.UserID)
		}
	})
}

func TestCategoryService_MergePatch(t *testing.T) {
	store, ann, _ := newTestStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	category, err := svc.Create(ctx, ann.ID, "Travel", "travel", "#123ABC")
	require.NoError(t, err)

	t.Run("absent fields keep stored values", func(t *testing.T) {
		updated, err := svc.Update(ctx, ann.ID, category.ID, CategoryPatch{Name: strPtr("Trips")})
		require.NoError(t, err)
		assert.Equal(t, "Trips", updated.Name)
		assert.Equal(t, "travel", updated.Icon)
		assert.Equal(t, "#123ABC", updated.Color)
	})

	t.Run("icon may be cleared, name may not", func(t *testing.T) {
		updated, err := svc.Update(ctx, ann.ID, category.ID, CategoryPatch{
			Name: strPtr(""),
			Icon: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Trips", updated.Name, "empty name must not overwrite")
		assert.Empty(t, updated.Icon, "icon uses presence semantics")
	})

	t.Run("repeated delete is not found", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, ann.ID, category.ID))
		assert.ErrorIs(t, svc.Delete(ctx, ann.ID, category.ID), ErrNotFound)
	})
}
