package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"cozinhai/internal/auth"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/metrics"
	"cozinhai/internal/model"
	"cozinhai/internal/repository"
)

// Session is the result of a successful login.
type Session struct {
	AccessToken string          `json:"access_token"`
	User        *model.SafeUser `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	// ValidateCredentials returns the user matching email and password, or
	// ErrInvalidCredential without saying which of the two was wrong.
	ValidateCredentials(ctx context.Context, email, password string) (*model.SafeUser, error)
	IssueSession(user *model.SafeUser) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Logout revokes the token described by claims until it expires. When the
	// revocation store is down the failure is logged and counted, not returned.
	Logout(ctx context.Context, claims *auth.Claims) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	log        *logrus.Entry
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger *logrus.Logger) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		log:        logger.WithField("service", "auth"),
	}
}

func (s *authService) ValidateCredentials(ctx context.Context, email, password string) (*model.SafeUser, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			auth.CompareDummy(password)
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, err
	}

	if !auth.ComparePassword(user.PasswordHash, user.Email, password) {
		return nil, apperrors.ErrInvalidCredential
	}
	if !user.Status {
		s.log.WithField("user_id", user.ID).Debug("login refused for deactivated user")
		return nil, apperrors.ErrInvalidCredential
	}
	return user.Safe(), nil
}

func (s *authService) IssueSession(user *model.SafeUser) (*Session, error) {
	token, _, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{AccessToken: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredential) {
			metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
			s.log.WithField("email", NormalizeEmail(email)).Debug("invalid credentials")
		}
		return nil, err
	}

	session, err := s.IssueSession(user)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	return session, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		metrics.RevocationFailures.Inc()
		s.log.WithError(err).WithField("user_id", claims.UserID).
			Warn("token not revoked: it stays valid until it expires")
	}
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) bool {
	revoked, err := s.tokenStore.IsTokenRevoked(ctx, tokenID)
	if err != nil {
		s.log.WithError(err).Warn("revocation lookup failed")
		return false
	}
	return revoked
}
