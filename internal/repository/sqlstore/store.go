// Package sqlstore persists the user and recipe aggregates through GORM.
// Embedded lists are stored as JSON columns so each aggregate stays one row.
package sqlstore

import (
	"context"

	"gorm.io/gorm"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
	"cozinhai/internal/repository"
)

type txKey struct{}

// Store is a GORM-backed repository.Store.
type Store struct {
	db      *gorm.DB
	users   *userRepository
	recipes *recipeRepository
}

var _ repository.Store = (*Store)(nil)

// New wraps db. Call Migrate before first use.
func New(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.users = &userRepository{store: s}
	s.recipes = &recipeRepository{store: s}
	return s
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&model.User{}, &model.Recipe{})
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository { return s.users }

// Recipes returns the recipe repository.
func (s *Store) Recipes() repository.RecipeRepository { return s.recipes }

// WithTransaction executes fn within a database transaction. Errors from fn
// are returned as is; failures to begin or commit are storage errors.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return apperrors.Storage("commit", err)
	}
	return err
}

// Atomic is always true for SQL backends.
func (s *Store) Atomic() bool { return true }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// conn returns the transaction bound to ctx, if any.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}
