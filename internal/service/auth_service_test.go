package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"invexa/internal/config"
	"invexa/internal/domain"
	"invexa/internal/service"
	"invexa/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "invexa-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, tokens, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "user@test.com",
		Password: "password123",
		FullName: "Test User",
	})
	require.NoError(t, err)

	assert.Equal(t, "user@test.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)
	// The stored hash must verify against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, _, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "user@test.com",
		Password: "password123",
		FullName: "Test User",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@test.com",
		PasswordHash: hashPassword("password123"),
		FullName:     "Test User",
	}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@test.com",
		PasswordHash: hashPassword("password123"),
	}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ghost@test.com",
		Password: "password123",
	})
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@test.com",
		PasswordHash: hashPassword("password123"),
	}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)

	// A refresh token is not a valid access token.
	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.Error(t, err)

	// Garbage is rejected.
	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthService_RefreshToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@test.com",
		PasswordHash: hashPassword("password123"),
	}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token cannot be used to refresh.
	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
