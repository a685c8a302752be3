package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invexa/internal/domain"
	"invexa/internal/handler"
	"invexa/internal/service"
	"invexa/mocks"
)

func postJSON(t *testing.T, h gin.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	user := &domain.User{ID: uuid.New(), Email: "user@test.com", FullName: "Test User"}
	tokens := &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(15 * time.Minute)}
	mockSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).Return(user, tokens, nil)

	w := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "user@test.com",
		"password": "password123",
		"fullName": "Test User",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	// Password below minimum length fails binding before the service runs.
	w := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "user@test.com",
		"password": "short",
		"fullName": "Test User",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrDuplicateEmail)

	w := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "user@test.com",
		"password": "password123",
		"fullName": "Test User",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	tokens := &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(15 * time.Minute)}
	mockSvc.On("Login", mock.Anything, mock.AnythingOfType("service.LoginInput")).Return(tokens, nil)

	w := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "user@test.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accessToken")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	mockSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	w := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "user@test.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	tokens := &service.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresAt: time.Now().Add(15 * time.Minute)}
	mockSvc.On("RefreshToken", mock.Anything, "old-refresh").Return(tokens, nil)

	w := postJSON(t, h.RefreshToken, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": "old-refresh",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}

func TestAuthHandler_RefreshToken_MissingBody(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	w := postJSON(t, h.RefreshToken, "/api/v1/auth/refresh", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
}
