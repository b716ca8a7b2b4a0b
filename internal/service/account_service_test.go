package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cozinhai/internal/auth"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
)

func newAccountFixture(t *testing.T) (*memStore, AccountService, AuthService) {
	t.Helper()
	store := newMemStore()
	logger := testLogger()
	accounts := NewAccountService(store.Users(), logger)
	authSvc := NewAuthService(store.Users(), auth.NewJWTService("test-secret", time.Hour), auth.NewTokenStore(nil), logger)
	return store, accounts, authSvc
}

func TestAccountService_CreateAccount(t *testing.T) {
	_, accounts, authSvc := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Status)
	assert.Empty(t, user.FavoriteRecipes)
	assert.Empty(t, user.ReviewRecipes)
	assert.NotEqual(t, "Secret#1A", user.PasswordHash)

	safe, err := authSvc.ValidateCredentials(ctx, "alice@example.com", "Secret#1A")
	require.NoError(t, err)
	assert.Equal(t, &model.SafeUser{ID: user.ID, Email: "alice@example.com", Name: "Alice"}, safe)

	_, err = authSvc.ValidateCredentials(ctx, "alice@example.com", "Secret#1B")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}

func TestAccountService_CreateAccountDuplicateEmail(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)

	_, err = accounts.CreateAccount(ctx, "Alice Again", " ALICE@Example.com", "Secret#2B")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestAccountService_UpdateName(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)

	updated, err := accounts.UpdateName(ctx, user.ID, "Alice Cooper")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)

	_, err = accounts.UpdateName(ctx, "missing", "Nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountService_UpdatePassword(t *testing.T) {
	_, accounts, authSvc := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)

	_, err = accounts.UpdatePassword(ctx, user.ID, "Wrong#1A", "Newer#2B")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = accounts.UpdatePassword(ctx, user.ID, "Secret#1A", "Newer#2B")
	require.NoError(t, err)

	_, err = authSvc.ValidateCredentials(ctx, "alice@example.com", "Secret#1A")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	_, err = authSvc.ValidateCredentials(ctx, "alice@example.com", "Newer#2B")
	assert.NoError(t, err)

	_, err = accounts.UpdatePassword(ctx, "missing", "Secret#1A", "Newer#2B")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccountService_LongEmailCannotBypassPassword(t *testing.T) {
	store, accounts, authSvc := newAccountFixture(t)
	ctx := context.Background()
	email := strings.Repeat("a", 60) + "@example.com"

	_, err := accounts.CreateAccount(ctx, "Victim", email, "Secret#1A")
	require.ErrorIs(t, err, apperrors.ErrPasswordTooLong)

	_, err = authSvc.ValidateCredentials(ctx, email, "totally-wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	// an account stored with a hash of the truncated input
	salted := []byte(auth.Salt(email) + "Secret#1A")
	legacy, err := bcrypt.GenerateFromPassword(salted[:72], bcrypt.DefaultCost)
	require.NoError(t, err)
	victim := model.NewUser("Victim", email, string(legacy))
	require.NoError(t, store.Users().Create(ctx, victim))

	_, err = authSvc.ValidateCredentials(ctx, email, "totally-wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	_, err = accounts.UpdatePassword(ctx, victim.ID, "totally-wrong", "Newer#2B")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}

func TestAccountService_UpdatePasswordTooLong(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	ctx := context.Background()
	email := strings.Repeat("a", 51) + "@example.com"

	user, err := accounts.CreateAccount(ctx, "Alice", email, "Secret#1")
	require.NoError(t, err)

	_, err = accounts.UpdatePassword(ctx, user.ID, "Secret#1", "Secret#1A")
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
}

func TestAccountService_Favorites(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)

	_, err = accounts.AddFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r1", Title: "Soup"})
	require.NoError(t, err)
	updated, err := accounts.AddFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r2", Title: "Pie", RecipeImage: "https://img/pie.png"})
	require.NoError(t, err)

	// newest first
	require.Len(t, updated.FavoriteRecipes, 2)
	assert.Equal(t, "r2", updated.FavoriteRecipes[0].RecipeID)
	assert.Equal(t, "r1", updated.FavoriteRecipes[1].RecipeID)

	_, err = accounts.AddFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r1", Title: "Soup"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateFavorite)

	removed, err := accounts.RemoveFavorite(ctx, user.ID, "r1")
	require.NoError(t, err)
	assert.False(t, removed.HasFavorite("r1"))

	// removing again is tolerated
	_, err = accounts.RemoveFavorite(ctx, user.ID, "r1")
	assert.NoError(t, err)

	_, err = accounts.AddFavorite(ctx, "missing", model.FavoriteRecipe{RecipeID: "r1", Title: "Soup"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = accounts.RemoveFavorite(ctx, "missing", "r1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccountService_RemoveFavoritePostCondition(t *testing.T) {
	store, accounts, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)
	_, err = accounts.AddFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: "r1", Title: "Soup"})
	require.NoError(t, err)

	store.keepFavorite = true
	_, err = accounts.RemoveFavorite(ctx, user.ID, "r1")
	assert.ErrorIs(t, err, apperrors.ErrRemovalFailed)
}

func TestAccountService_ListFavorites(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)
	for _, id := range []string{"r1", "r2"} {
		_, err = accounts.AddFavorite(ctx, user.ID, model.FavoriteRecipe{RecipeID: id, Title: id})
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		page Page
		want []string
	}{
		{name: "first page", page: Page{Limit: 10}, want: []string{"r2", "r1"}},
		{name: "default limit", page: Page{}, want: []string{"r2", "r1"}},
		{name: "limit one", page: Page{Limit: 1}, want: []string{"r2"}},
		{name: "offset one", page: Page{Limit: 10, Offset: 1}, want: []string{"r1"}},
		{name: "offset past end", page: Page{Limit: 10, Offset: 1000}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favs, err := accounts.ListFavorites(ctx, user.ID, tt.page)
			require.NoError(t, err)
			require.NotNil(t, favs)
			ids := make([]string, 0, len(favs))
			for _, f := range favs {
				ids = append(ids, f.RecipeID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err = accounts.ListFavorites(ctx, "missing", Page{Limit: 10})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccountService_Deactivate(t *testing.T) {
	_, accounts, authSvc := newAccountFixture(t)
	ctx := context.Background()

	user, err := accounts.CreateAccount(ctx, "Alice", "alice@example.com", "Secret#1A")
	require.NoError(t, err)

	deactivated, err := accounts.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Status)

	// data is kept
	got, err := accounts.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = authSvc.Login(ctx, "alice@example.com", "Secret#1A")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = accounts.Deactivate(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
