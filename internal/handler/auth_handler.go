package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cozinhai/internal/errors"
	"cozinhai/internal/model"
	"cozinhai/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    service.AuthService
	accountService service.AccountService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, accountService service.AccountService) *AuthHandler {
	return &AuthHandler{authService: authService, accountService: accountService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=63"`
	Password string `json:"password" validate:"required,min=8,max=64,strongpwd"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse represents a registration response.
type RegisterResponse struct {
	Message string            `json:"message"`
	User    *model.PublicUser `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accountService.CreateAccount(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "user created",
		User:    user.Public(),
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token",
			Code:  "INVALID_TOKEN",
		})
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
