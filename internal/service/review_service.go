package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/metrics"
	"cozinhai/internal/model"
	"cozinhai/internal/repository"
)

const (
	minGrade = 1
	maxGrade = 5
)

// ReviewInput carries the optional fields of a review write. Nil means
// "keep the previous value".
type ReviewInput struct {
	Title       *string
	RecipeImage *string
	Comment     *string
	Grade       *int
}

// ReviewResult holds both aggregates after a review write.
type ReviewResult struct {
	User   *model.User
	Recipe *model.Recipe
}

// ReviewService keeps a review mirrored between its user and its recipe.
type ReviewService interface {
	UpsertReview(ctx context.Context, userID, recipeID string, in ReviewInput) (*ReviewResult, error)
	ListUserReviews(ctx context.Context, userID string, page Page) ([]model.Review, error)
	ListRecipeReviews(ctx context.Context, recipeID string, page Page) ([]model.RecipeReviewView, error)
	RecipeRating(ctx context.Context, recipeID string) (*model.RecipeRating, error)
}

type reviewService struct {
	store repository.Store
	log   *logrus.Entry
	now   func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(store repository.Store, logger *logrus.Logger) ReviewService {
	return &reviewService{
		store: store,
		log:   logger.WithField("service", "review"),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// UpsertReview writes the user's review into the user and the recipe in one
// transaction. The recipe aggregate is created on first review. When the store
// cannot roll back and only the user side was written, the error wraps
// ErrPartialSync.
func (s *reviewService) UpsertReview(ctx context.Context, userID, recipeID string, in ReviewInput) (*ReviewResult, error) {
	var (
		result    *ReviewResult
		created   bool
		userSaved bool
	)

	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.store.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		recipe, err := s.store.Recipes().FindByRecipeID(ctx, recipeID)
		if errors.Is(err, apperrors.ErrRecipeNotFound) {
			recipe = model.NewRecipe(recipeID, valueOr(in.Title, ""))
		} else if err != nil {
			return err
		}

		review, isNew, err := s.buildReview(user, recipeID, in)
		if err != nil {
			return err
		}

		user.PutReview(review)
		if err := s.store.Users().SetReviews(ctx, user.ID, user.ReviewRecipes); err != nil {
			return err
		}
		userSaved = true

		recipe.PutReview(review)
		if err := s.store.Recipes().Save(ctx, recipe); err != nil {
			return err
		}

		result = &ReviewResult{User: user, Recipe: recipe}
		created = isNew
		return nil
	})
	if err != nil {
		if userSaved && !s.store.Atomic() {
			metrics.ReviewPartialSync.Inc()
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id":   userID,
				"recipe_id": recipeID,
			}).Error("review stored for user only")
			return nil, fmt.Errorf("%w: %w", apperrors.ErrPartialSync, err)
		}
		return nil, err
	}

	outcome := metrics.OutcomeUpdated
	if created {
		outcome = metrics.OutcomeCreated
	}
	metrics.ReviewsUpserted.WithLabelValues(outcome).Inc()
	return result, nil
}

// buildReview resolves the new review from the input and the user's previous
// review of the recipe, if any.
func (s *reviewService) buildReview(user *model.User, recipeID string, in ReviewInput) (model.Review, bool, error) {
	existing := user.FindReview(recipeID)
	if existing == nil && in.Grade == nil {
		return model.Review{}, false, apperrors.ErrMissingGrade
	}

	var prev model.Review
	if existing != nil {
		prev = *existing
	}

	grade := prev.Grade
	if in.Grade != nil {
		grade = *in.Grade
	}
	if grade < minGrade || grade > maxGrade {
		return model.Review{}, false, apperrors.ErrInvalidGrade
	}

	return model.Review{
		UserID:      user.ID,
		RecipeID:    recipeID,
		Title:       valueOr(in.Title, prev.Title),
		RecipeImage: valueOr(in.RecipeImage, prev.RecipeImage),
		Date:        s.now(),
		Comment:     valueOr(in.Comment, prev.Comment),
		Grade:       grade,
	}, existing == nil, nil
}

// ListUserReviews returns the user's reviews, most recent first.
func (s *reviewService) ListUserReviews(ctx context.Context, userID string, page Page) ([]model.Review, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews := slices.Clone(user.ReviewRecipes)
	slices.SortStableFunc(reviews, func(a, b model.Review) int {
		return b.Date.Compare(a.Date)
	})
	return paginate(reviews, page), nil
}

// ListRecipeReviews returns the recipe's reviews in the order they were first written.
func (s *reviewService) ListRecipeReviews(ctx context.Context, recipeID string, page Page) ([]model.RecipeReviewView, error) {
	recipe, err := s.store.Recipes().FindByRecipeID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	window := paginate(recipe.Reviews, page)
	views := make([]model.RecipeReviewView, 0, len(window))
	for _, r := range window {
		views = append(views, model.RecipeReviewView{Date: r.Date, Comment: r.Comment, Grade: r.Grade})
	}
	return views, nil
}

// RecipeRating averages the recipe's grades, rounded to two decimals.
func (s *reviewService) RecipeRating(ctx context.Context, recipeID string) (*model.RecipeRating, error) {
	recipe, err := s.store.Recipes().FindByRecipeID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	rating := &model.RecipeRating{
		RecipeID: recipe.RecipeID,
		Title:    recipe.Title,
		Count:    len(recipe.Reviews),
		Average:  decimal.Zero,
	}
	if rating.Count == 0 {
		return rating, nil
	}
	sum := decimal.Zero
	for _, r := range recipe.Reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Grade)))
	}
	rating.Average = sum.Div(decimal.NewFromInt(int64(rating.Count))).Round(2)
	return rating, nil
}
