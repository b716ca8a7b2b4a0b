package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cozinhai/internal/model"
	"cozinhai/internal/service"
)

// UserHandler serves the /user/:id routes: profile, favorites and reviews.
type UserHandler struct {
	accounts service.AccountService
	reviews  service.ReviewService
}

// NewUserHandler creates a user handler.
func NewUserHandler(accounts service.AccountService, reviews service.ReviewService) *UserHandler {
	return &UserHandler{accounts: accounts, reviews: reviews}
}

// UpdateNameRequest represents a name change.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,min=3,max=30"`
}

// UpdatePasswordRequest represents a password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=64,strongpwd"`
}

// AddFavoriteRequest represents a favorite to bookmark.
type AddFavoriteRequest struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	RecipeImage string `json:"recipeImage" validate:"omitempty,url"`
}

// ReviewRequest represents a review write. Omitted fields keep their
// previous value; grade is required the first time.
type ReviewRequest struct {
	Title       *string `json:"title"`
	RecipeImage *string `json:"recipeImage" validate:"omitempty,url"`
	Comment     *string `json:"comment" validate:"omitempty,min=3,max=1000"`
	Grade       *int    `json:"grade" validate:"omitempty,min=1,max=5"`
}

// ReviewResponse is returned after a review write.
type ReviewResponse struct {
	Message string       `json:"message"`
	Review  model.Review `json:"review"`
}

// GetUser godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.accounts.GetAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user.Public())
}

// UpdateName godoc
// @Summary Update the user's name
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateNameRequest true "New name"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/name [patch]
func (h *UserHandler) UpdateName(c echo.Context) error {
	var req UpdateNameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.accounts.UpdateName(c.Request().Context(), c.Param("id"), req.Name); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "name updated"})
}

// UpdatePassword godoc
// @Summary Update the user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/password [patch]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.accounts.UpdatePassword(c.Request().Context(), c.Param("id"), req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// Deactivate godoc
// @Summary Deactivate the account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	user, err := h.accounts.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user.Public())
}

// AddFavorite godoc
// @Summary Add a recipe to the user's favorites
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body AddFavoriteRequest true "Recipe"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/{id}/favorites [patch]
func (h *UserHandler) AddFavorite(c echo.Context) error {
	var req AddFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	fav := model.FavoriteRecipe{RecipeID: req.ID, Title: req.Title, RecipeImage: req.RecipeImage}
	if _, err := h.accounts.AddFavorite(c.Request().Context(), c.Param("id"), fav); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "recipe added to favorites"})
}

// RemoveFavorite godoc
// @Summary Remove a recipe from the user's favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{id}/favorites/{recipeId} [delete]
func (h *UserHandler) RemoveFavorite(c echo.Context) error {
	if _, err := h.accounts.RemoveFavorite(c.Request().Context(), c.Param("id"), c.Param("recipeId")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "recipe removed from favorites"})
}

// ListFavorites godoc
// @Summary List the user's favorites, newest first
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {array} model.FavoriteRecipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/favorites [get]
func (h *UserHandler) ListFavorites(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	favs, err := h.accounts.ListFavorites(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, favs)
}

// UpsertReview godoc
// @Summary Add or update the user's review of a recipe
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param recipeId path string true "Recipe ID"
// @Param request body ReviewRequest true "Review"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{id}/{recipeId}/reviews [post]
func (h *UserHandler) UpsertReview(c echo.Context) error {
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	recipeID := c.Param("recipeId")
	res, err := h.reviews.UpsertReview(c.Request().Context(), c.Param("id"), recipeID, service.ReviewInput{
		Title:       req.Title,
		RecipeImage: req.RecipeImage,
		Comment:     req.Comment,
		Grade:       req.Grade,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, ReviewResponse{
		Message: "review saved",
		Review:  *res.User.FindReview(recipeID),
	})
}

// ListReviews godoc
// @Summary List the user's reviews, most recent first
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {array} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/reviews [get]
func (h *UserHandler) ListReviews(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListUserReviews(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
