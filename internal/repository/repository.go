// Package repository declares the storage contract the services depend on.
// Implementations return errors from cozinhai/internal/errors: ErrUserNotFound or
// ErrRecipeNotFound for missing aggregates, ErrDuplicateEmail for a taken email,
// and ErrStorage (wrapping the driver error) for everything else.
package repository

import (
	"context"

	"cozinhai/internal/model"
)

// UserRepository defines user aggregate persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateName(ctx context.Context, id, name string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*model.User, error)
	// PushFavorite inserts fav at the front of the favorites list.
	PushFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error)
	// PullFavorite removes every favorite with recipeID and returns the stored user.
	PullFavorite(ctx context.Context, id, recipeID string) (*model.User, error)
	// SetReviews overwrites the user's review list.
	SetReviews(ctx context.Context, id string, reviews []model.Review) error
	SetStatus(ctx context.Context, id string, status bool) (*model.User, error)
}

// RecipeRepository defines recipe aggregate persistence operations.
type RecipeRepository interface {
	FindByRecipeID(ctx context.Context, recipeID string) (*model.Recipe, error)
	// Save inserts or replaces the whole aggregate.
	Save(ctx context.Context, recipe *model.Recipe) error
}

// Transactor groups writes to several aggregates.
type Transactor interface {
	// WithTransaction runs fn. Repository calls made with the ctx passed to fn
	// join the transaction when the store supports one.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether WithTransaction rolls back every write when fn fails.
	Atomic() bool
}

// Store bundles a backend's repositories.
type Store interface {
	Transactor
	Users() UserRepository
	Recipes() RecipeRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
