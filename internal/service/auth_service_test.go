package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cozinhai/internal/auth"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/metrics"
	"cozinhai/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id, name string) (*model.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) (*model.User, error) {
	args := m.Called(ctx, id, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) PushFavorite(ctx context.Context, id string, fav model.FavoriteRecipe) (*model.User, error) {
	args := m.Called(ctx, id, fav)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) PullFavorite(ctx context.Context, id, recipeID string) (*model.User, error) {
	args := m.Called(ctx, id, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetReviews(ctx context.Context, id string, reviews []model.Review) error {
	args := m.Called(ctx, id, reviews)
	return args.Error(0)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, id string, status bool) (*model.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func storedUser(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(email, password)
	require.NoError(t, err)
	user := model.NewUser("Test User", email, hash)
	user.Status = active
	return user
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "Secret#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(storedUser(t, "test@example.com", "Secret#1A", true), nil)
			},
		},
		{
			name:     "email is normalized before lookup",
			email:    "  Test@Example.COM ",
			password: "Secret#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(storedUser(t, "test@example.com", "Secret#1A", true), nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "Secret#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidCredential,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "Wrong#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(storedUser(t, "test@example.com", "Secret#1A", true), nil)
			},
			expectedError: apperrors.ErrInvalidCredential,
		},
		{
			name:     "invalid credentials - deactivated user",
			email:    "test@example.com",
			password: "Secret#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(storedUser(t, "test@example.com", "Secret#1A", false), nil)
			},
			expectedError: apperrors.ErrInvalidCredential,
		},
		{
			name:     "storage failure is not reported as bad credentials",
			email:    "test@example.com",
			password: "Secret#1A",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(nil, apperrors.Storage("find user", errors.New("connection reset")))
			},
			expectedError: apperrors.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore), testLogger())

			session, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				require.NotNil(t, session)
				assert.NotEmpty(t, session.AccessToken)
				assert.Equal(t, "test@example.com", session.User.Email)

				claims, err := jwtService.ValidateToken(session.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, session.User.ID, claims.UserID)
				assert.Equal(t, "test@example.com", claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_CredentialErrorsAreIndistinguishable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").
		Return(storedUser(t, "known@example.com", "Secret#1A", true), nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, apperrors.ErrUserNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore), testLogger())

	_, wrongPassword := service.ValidateCredentials(context.Background(), "known@example.com", "Nope#123")
	_, unknownEmail := service.ValidateCredentials(context.Background(), "unknown@example.com", "Nope#123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, apperrors.MapErrorToHTTP(wrongPassword), apperrors.MapErrorToHTTP(unknownEmail))
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	_, claims, err := jwtService.GenerateToken("user-1", "test@example.com")
	require.NoError(t, err)

	mockTokens := new(MockTokenStore)
	mockTokens.On("RevokeToken", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil)
	mockTokens.On("IsTokenRevoked", mock.Anything, claims.ID).Return(true, nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokens, testLogger())

	require.NoError(t, service.Logout(context.Background(), claims))
	assert.True(t, service.IsRevoked(context.Background(), claims.ID))
	mockTokens.AssertExpectations(t)
}

func TestAuthService_LogoutWarnsWhenRevocationFails(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	_, claims, err := jwtService.GenerateToken("user-1", "test@example.com")
	require.NoError(t, err)

	mockTokens := new(MockTokenStore)
	mockTokens.On("RevokeToken", mock.Anything, claims.ID, mock.Anything).Return(errors.New("redis down"))

	logger, hook := logtest.NewNullLogger()
	service := NewAuthService(new(MockUserRepository), jwtService, mockTokens, logger)
	before := testutil.ToFloat64(metrics.RevocationFailures)

	require.NoError(t, service.Logout(context.Background(), claims))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "user-1", entry.Data["user_id"])
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RevocationFailures))
	mockTokens.AssertExpectations(t)
}

func TestAuthService_IsRevokedFailsOpen(t *testing.T) {
	mockTokens := new(MockTokenStore)
	mockTokens.On("IsTokenRevoked", mock.Anything, "jti").Return(false, errors.New("redis down"))

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("s", time.Hour), mockTokens, testLogger())

	assert.False(t, service.IsRevoked(context.Background(), "jti"))
}
