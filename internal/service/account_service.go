package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"cozinhai/internal/auth"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/model"
	"cozinhai/internal/repository"
)

// AccountService handles account and favorites operations.
type AccountService interface {
	CreateAccount(ctx context.Context, name, email, password string) (*model.User, error)
	GetAccount(ctx context.Context, id string) (*model.User, error)
	UpdateName(ctx context.Context, id, name string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (*model.User, error)
	AddFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error)
	RemoveFavorite(ctx context.Context, id, recipeID string) (*model.User, error)
	ListFavorites(ctx context.Context, id string, page Page) ([]model.FavoriteRecipe, error)
	Deactivate(ctx context.Context, id string) (*model.User, error)
}

type accountService struct {
	users repository.UserRepository
	log   *logrus.Entry
}

// NewAccountService creates a new account service.
func NewAccountService(users repository.UserRepository, logger *logrus.Logger) AccountService {
	return &accountService{
		users: users,
		log:   logger.WithField("service", "account"),
	}
}

// CreateAccount registers a new active user with a salted password hash.
func (s *accountService) CreateAccount(ctx context.Context, name, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.NewUser(name, email, hash)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("account created")
	return user, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *accountService) UpdateName(ctx context.Context, id, name string) (*model.User, error) {
	return s.users.UpdateName(ctx, id, name)
}

// UpdatePassword replaces the hash after checking the current password.
func (s *accountService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.ComparePassword(user.PasswordHash, user.Email, currentPassword) {
		return nil, apperrors.ErrInvalidCredential
	}

	hash, err := auth.HashPassword(user.Email, newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	updated, err := s.users.UpdatePasswordHash(ctx, id, hash)
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", id).Info("password updated")
	return updated, nil
}

// AddFavorite puts fav at the front of the user's favorites.
func (s *accountService) AddFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.HasFavorite(fav.RecipeID) {
		return nil, apperrors.ErrDuplicateFavorite
	}
	return s.users.PushFavorite(ctx, id, fav)
}

// RemoveFavorite drops every favorite with recipeID. Removing an absent
// favorite succeeds.
func (s *accountService) RemoveFavorite(ctx context.Context, id, recipeID string) (*model.User, error) {
	user, err := s.users.PullFavorite(ctx, id, recipeID)
	if err != nil {
		return nil, err
	}
	if user.HasFavorite(recipeID) {
		s.log.WithFields(logrus.Fields{"user_id": id, "recipe_id": recipeID}).Error("favorite still present after removal")
		return nil, apperrors.ErrRemovalFailed
	}
	return user, nil
}

func (s *accountService) ListFavorites(ctx context.Context, id string, page Page) ([]model.FavoriteRecipe, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return paginate(user.FavoriteRecipes, page), nil
}

// Deactivate clears the status flag. Nothing is deleted.
func (s *accountService) Deactivate(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.SetStatus(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", id).Info("account deactivated")
	return user, nil
}
