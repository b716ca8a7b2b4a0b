package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cozinhai/internal/service"
)

// RecipeHandler serves the public recipe review endpoints.
type RecipeHandler struct {
	reviews service.ReviewService
}

// NewRecipeHandler creates a recipe handler.
func NewRecipeHandler(reviews service.ReviewService) *RecipeHandler {
	return &RecipeHandler{reviews: reviews}
}

// ListReviews godoc
// @Summary List a recipe's reviews
// @Tags recipes
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {array} model.RecipeReviewView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/{recipeId}/reviews [get]
func (h *RecipeHandler) ListReviews(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	views, err := h.reviews.ListRecipeReviews(c.Request().Context(), c.Param("recipeId"), page)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// Rating godoc
// @Summary Average grade of a recipe
// @Tags recipes
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} model.RecipeRating
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/{recipeId}/rating [get]
func (h *RecipeHandler) Rating(c echo.Context) error {
	rating, err := h.reviews.RecipeRating(c.Request().Context(), c.Param("recipeId"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, rating)
}
