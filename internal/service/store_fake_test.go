package service

import (
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
	"cozinhai/internal/repository"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memStore is a map-backed repository.Store. Aggregates are copied on the
// way in and out so callers never share slices with the store.
type memStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	recipes map[string]model.Recipe

	atomic         bool
	failRecipeSave error
	failSetReviews error
	keepFavorite   bool
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]model.User{},
		recipes: map[string]model.Recipe{},
		atomic:  true,
	}
}

func (s *memStore) Users() repository.UserRepository     { return memUsers{s} }
func (s *memStore) Recipes() repository.RecipeRepository { return memRecipes{s} }
func (s *memStore) Atomic() bool                         { return s.atomic }
func (s *memStore) Ping(context.Context) error           { return nil }
func (s *memStore) Close(context.Context) error          { return nil }

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.atomic {
		return fn(ctx)
	}
	s.mu.Lock()
	users := maps.Clone(s.users)
	recipes := maps.Clone(s.recipes)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.recipes = users, recipes
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneUser(u model.User) *model.User {
	u.FavoriteRecipes = slices.Clone(u.FavoriteRecipes)
	u.ReviewRecipes = slices.Clone(u.ReviewRecipes)
	return &u
}

func cloneRecipe(r model.Recipe) *model.Recipe {
	r.Reviews = slices.Clone(r.Reviews)
	return &r
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUsers) update(id string, mutate func(u *model.User)) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	updated := cloneUser(u)
	mutate(updated)
	updated.UpdatedAt = time.Now().UTC()
	r.s.users[id] = *updated
	return cloneUser(*updated), nil
}

func (r memUsers) UpdateName(_ context.Context, id, name string) (*model.User, error) {
	return r.update(id, func(u *model.User) { u.Name = name })
}

func (r memUsers) UpdatePasswordHash(_ context.Context, id, hash string) (*model.User, error) {
	return r.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (r memUsers) PushFavorite(_ context.Context, id string, fav model.FavoriteRecipe) (*model.User, error) {
	return r.update(id, func(u *model.User) {
		u.FavoriteRecipes = append([]model.FavoriteRecipe{fav}, u.FavoriteRecipes...)
	})
}

func (r memUsers) PullFavorite(_ context.Context, id, recipeID string) (*model.User, error) {
	return r.update(id, func(u *model.User) {
		if r.s.keepFavorite {
			return
		}
		u.FavoriteRecipes = slices.DeleteFunc(u.FavoriteRecipes, func(f model.FavoriteRecipe) bool {
			return f.RecipeID == recipeID
		})
	})
}

func (r memUsers) SetReviews(_ context.Context, id string, reviews []model.Review) error {
	if r.s.failSetReviews != nil {
		return r.s.failSetReviews
	}
	_, err := r.update(id, func(u *model.User) { u.ReviewRecipes = slices.Clone(reviews) })
	return err
}

func (r memUsers) SetStatus(_ context.Context, id string, status bool) (*model.User, error) {
	return r.update(id, func(u *model.User) { u.Status = status })
}

type memRecipes struct{ s *memStore }

func (r memRecipes) FindByRecipeID(_ context.Context, recipeID string) (*model.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[recipeID]
	if !ok {
		return nil, apperrors.ErrRecipeNotFound
	}
	return cloneRecipe(rec), nil
}

func (r memRecipes) Save(_ context.Context, recipe *model.Recipe) error {
	if r.s.failRecipeSave != nil {
		return r.s.failRecipeSave
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recipes[recipe.RecipeID] = *cloneRecipe(*recipe)
	return nil
}
