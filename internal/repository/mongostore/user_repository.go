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

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return apperrors.Storage("insert user", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) UpdateName(ctx context.Context, id, name string) (*model.User, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"name": name}})
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*model.User, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"passwordHash": passwordHash}})
}

func (r *userRepository) PushFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error) {
	return r.findAndUpdate(ctx, id, pushFavoriteUpdate(fav))
}

func (r *userRepository) PullFavorite(ctx context.Context, id, recipeID string) (*model.User, error) {
	return r.findAndUpdate(ctx, id, pullFavoriteUpdate(recipeID))
}

// pushFavoriteUpdate prepends fav so the list stays newest first.
func pushFavoriteUpdate(fav model.FavoriteRecipe) bson.M {
	return bson.M{
		"$push": bson.M{"favoriteRecipes": bson.M{
			"$each":     []model.FavoriteRecipe{fav},
			"$position": 0,
		}},
	}
}

// pullFavoriteUpdate removes every favorite with recipeID.
func pullFavoriteUpdate(recipeID string) bson.M {
	return bson.M{"$pull": bson.M{"favoriteRecipes": bson.M{"recipeId": recipeID}}}
}

// withUpdatedAt adds updatedAt to the $set stage of update, creating it if needed.
func withUpdatedAt(update bson.M, now time.Time) bson.M {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = now
	} else {
		update["$set"] = bson.M{"updatedAt": now}
	}
	return update
}

func (r *userRepository) SetReviews(ctx context.Context, id string, reviews []model.Review) error {
	_, err := r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"reviewRecipes": reviews}})
	return err
}

func (r *userRepository) SetStatus(ctx context.Context, id string, status bool) (*model.User, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"status": status}})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage("find user", err)
	}
	normalizeUser(&user)
	return &user, nil
}

// findAndUpdate applies update and returns the document after the change.
func (r *userRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*model.User, error) {
	update = withUpdatedAt(update, time.Now().UTC().Truncate(time.Millisecond))

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage("update user", err)
	}
	normalizeUser(&user)
	return &user, nil
}

func normalizeUser(u *model.User) {
	if u.FavoriteRecipes == nil {
		u.FavoriteRecipes = []model.FavoriteRecipe{}
	}
	if u.ReviewRecipes == nil {
		u.ReviewRecipes = []model.Review{}
	}
}
