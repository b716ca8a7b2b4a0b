package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecipeTitle is used when a recipe aggregate is created without a title.
const DefaultRecipeTitle = "untitled recipe"

// Recipe is the per-recipe review aggregate, keyed by the external recipe id.
type Recipe struct {
	RecipeID  string    `json:"recipeId" bson:"_id" gorm:"column:recipe_id;primaryKey;size:255"`
	Title     string    `json:"title" bson:"title" gorm:"size:255"`
	Reviews   []Review  `json:"reviews" bson:"reviews" gorm:"serializer:json;type:longtext"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewRecipe builds an empty aggregate.
func NewRecipe(recipeID, title string) *Recipe {
	if title == "" {
		title = DefaultRecipeTitle
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Recipe{
		RecipeID:  recipeID,
		Title:     title,
		Reviews:   []Review{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PutReview replaces the entry with the same user id or appends it.
func (r *Recipe) PutReview(review Review) {
	for i := range r.Reviews {
		if r.Reviews[i].UserID == review.UserID {
			r.Reviews[i] = review
			return
		}
	}
	r.Reviews = append(r.Reviews, review)
}

// FindReview returns the review left by userID, or nil.
func (r *Recipe) FindReview(userID string) *Review {
	for i := range r.Reviews {
		if r.Reviews[i].UserID == userID {
			return &r.Reviews[i]
		}
	}
	return nil
}

// Review is the canonical record mirrored in User.ReviewRecipes and Recipe.Reviews.
type Review struct {
	UserID      string    `json:"userId" bson:"userId"`
	RecipeID    string    `json:"recipeId" bson:"recipeId"`
	Title       string    `json:"title" bson:"title"`
	RecipeImage string    `json:"recipeImage,omitempty" bson:"recipeImage,omitempty"`
	Date        time.Time `json:"date" bson:"date"`
	Comment     string    `json:"comment" bson:"comment"`
	Grade       int       `json:"grade" bson:"grade"`
}

// RecipeReviewView is the public shape of a review listed under a recipe.
type RecipeReviewView struct {
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
	Grade   int       `json:"grade"`
}

// RecipeRating summarizes the grades stored for a recipe.
type RecipeRating struct {
	RecipeID string          `json:"recipeId"`
	Title    string          `json:"title"`
	Count    int             `json:"count"`
	Average  decimal.Decimal `json:"average"`
}
