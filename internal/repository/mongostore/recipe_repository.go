package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
)

type recipeRepository struct {
	coll *mongo.Collection
}

func (r *recipeRepository) FindByRecipeID(ctx context.Context, recipeID string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.coll.FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
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
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": recipe.RecipeID}, recipe, opts); err != nil {
		return apperrors.Storage("save recipe", err)
	}
	return nil
}
