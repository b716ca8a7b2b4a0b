package mongostore_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozinhai/internal/db"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
	"cozinhai/internal/repository/mongostore"
)

// newStore connects to MONGO_URI and uses a throwaway database.
func newStore(t *testing.T) *mongostore.Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := db.NewMongo(ctx, uri)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	name := "cozinhai_test_" + uuid.NewString()[:8]
	store, err := mongostore.New(ctx, client, name, logger)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))

	t.Cleanup(func() {
		_ = client.Database(name).Drop(context.Background())
		_ = store.Close(context.Background())
	})
	return store
}

func TestMongoUserRepository(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	users := store.Users()

	user := model.NewUser("Alice", "alice@example.com", "hash")
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, model.NewUser("Dup", "alice@example.com", "hash")), apperrors.ErrDuplicateEmail)

	_, err := users.PushFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r1", Title: "Soup"})
	require.NoError(t, err)
	got, err := users.PushFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r2", Title: "Pie"})
	require.NoError(t, err)
	require.Len(t, got.FavoriteRecipes, 2)
	assert.Equal(t, "r2", got.FavoriteRecipes[0].RecipeID)

	got, err = users.PullFavorite(ctx, user.ID, "r2")
	require.NoError(t, err)
	assert.Len(t, got.FavoriteRecipes, 1)

	got, err = users.SetStatus(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Status)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestMongoRecipeRepository(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	recipe := model.NewRecipe("r1", "Soup")
	recipe.PutReview(model.Review{UserID: "u1", RecipeID: "r1", Grade: 4, Date: time.Now().UTC().Truncate(time.Millisecond)})
	require.NoError(t, store.Recipes().Save(ctx, recipe))
	require.NoError(t, store.Recipes().Save(ctx, recipe))

	stored, err := store.Recipes().FindByRecipeID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", stored.Title)
	assert.Equal(t, recipe.Reviews, stored.Reviews)

	_, err = store.Recipes().FindByRecipeID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrRecipeNotFound)
}
