package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.store.conn(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateEmail
		}
		return apperrors.Storage("create user", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) UpdateName(ctx context.Context, id, name string) (*model.User, error) {
	return r.update(ctx, id, func(u *model.User) { u.Name = name }, "name")
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*model.User, error) {
	return r.update(ctx, id, func(u *model.User) { u.PasswordHash = passwordHash }, "password_hash")
}

func (r *userRepository) PushFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error) {
	return r.update(ctx, id, func(u *model.User) {
		u.FavoriteRecipes = append([]model.FavoriteRecipe{fav}, u.FavoriteRecipes...)
	}, "favorite_recipes")
}

func (r *userRepository) PullFavorite(ctx context.Context, id, recipeID string) (*model.User, error) {
	return r.update(ctx, id, func(u *model.User) {
		kept := make([]model.FavoriteRecipe, 0, len(u.FavoriteRecipes))
		for _, fav := range u.FavoriteRecipes {
			if fav.RecipeID != recipeID {
				kept = append(kept, fav)
			}
		}
		u.FavoriteRecipes = kept
	}, "favorite_recipes")
}

func (r *userRepository) SetReviews(ctx context.Context, id string, reviews []model.Review) error {
	_, err := r.update(ctx, id, func(u *model.User) { u.ReviewRecipes = reviews }, "review_recipes")
	return err
}

func (r *userRepository) SetStatus(ctx context.Context, id string, status bool) (*model.User, error) {
	return r.update(ctx, id, func(u *model.User) { u.Status = status }, "status")
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.store.conn(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage("find user", err)
	}
	normalizeUser(&user)
	return &user, nil
}

// update loads the row, applies mutate and writes back only the named column.
func (r *userRepository) update(ctx context.Context, id string, mutate func(*model.User), column string) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(user)
	user.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if err := r.store.conn(ctx).Model(user).Select(column, "updated_at").Updates(user).Error; err != nil {
		return nil, apperrors.Storage("update user "+column, err)
	}
	return user, nil
}

// normalizeUser replaces NULL JSON columns with empty lists.
func normalizeUser(u *model.User) {
	if u.FavoriteRecipes == nil {
		u.FavoriteRecipes = []model.FavoriteRecipe{}
	}
	if u.ReviewRecipes == nil {
		u.ReviewRecipes = []model.Review{}
	}
}
