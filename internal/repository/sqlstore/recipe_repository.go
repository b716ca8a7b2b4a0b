package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
)

type recipeRepository struct {
	store *Store
}

func (r *recipeRepository) FindByRecipeID(ctx context.Context, recipeID string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.store.conn(ctx).Where("recipe_id = ?", recipeID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, apperrors.Storage("find recipe", err)
	}
	if recipe.Reviews == nil {
		recipe.Reviews = []model.Review{}
	}
	return &recipe, nil
}

func (r *recipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = recipe.UpdatedAt
	}
	if err := r.store.conn(ctx).Save(recipe).Error; err != nil {
		return apperrors.Storage("save recipe", err)
	}
	return nil
}
