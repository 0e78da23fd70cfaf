package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	authhttp "cardvault/internal/auth/adapter/http"
	"cardvault/internal/auth/domain/model"
	"cardvault/internal/auth/domain/repository"
	"cardvault/internal/auth/usecase"
	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Signup(ctx context.Context, req usecase.SignupRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	return user, args.String(1), args.Error(2)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	return user, args.String(1), args.Error(2)
}

func (m *mockAuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

func setupAuthApp(uc usecase.AuthUsecaseInterface) *fiber.App {
	app := fiber.New()
	handler := authhttp.NewAuthHTTPHandler(uc, logger.NewLogger())
	middleware := authhttp.NewAuthMiddleware(uc)
	handler.SetupAuthRoutesWithMiddleware(app.Group("/api/auth"), middleware)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestSignup_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("Signup", mock.Anything, mock.Anything).
		Return(&model.User{ID: "user-1", Email: "new@example.com"}, "signed-token", nil)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/signup", map[string]string{
		"email": "new@example.com", "password": "secret123", "confirmPassword": "secret123",
	}, nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "signed-token", body["token"])
	assert.Equal(t, "user-1", body["userId"])
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("Signup", mock.Anything, mock.Anything).Return(nil, "", usecase.ErrEmailTaken)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/signup", map[string]string{
		"email": "taken@example.com", "password": "secret123", "confirmPassword": "secret123",
	}, nil)

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestSignup_ValidationBadRequest(t *testing.T) {
	for name, sentinel := range map[string]error{
		"missing fields":    usecase.ErrMissingFields,
		"password mismatch": usecase.ErrPasswordMismatch,
		"password short":    usecase.ErrPasswordTooShort,
		"bad email":         usecase.ErrInvalidEmailFormat,
	} {
		t.Run(name, func(t *testing.T) {
			uc := &mockAuthUsecase{}
			uc.On("Signup", mock.Anything, mock.Anything).Return(nil, "", sentinel)

			app := setupAuthApp(uc)
			status, body := postJSON(t, app, "/api/auth/signup", map[string]string{}, nil)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, sentinel.Error(), body["error"])
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("Login", mock.Anything, mock.Anything).Return(nil, "", usecase.ErrInvalidCredentials)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "user@example.com", "password": "wrong",
	}, nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestLogin_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("Login", mock.Anything, mock.Anything).
		Return(&model.User{ID: "user-1", Email: "user@example.com"}, "signed-token", nil)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "user@example.com", "password": "secret123",
	}, nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "signed-token", body["token"])
	assert.Equal(t, "user-1", body["userId"])
}

func TestVerify_RequiresToken(t *testing.T) {
	uc := &mockAuthUsecase{}
	app := setupAuthApp(uc)

	status, body := postJSON(t, app, "/api/auth/verify", map[string]string{}, nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", body["error"])
	uc.AssertNotCalled(t, "ValidateToken")
}

func TestVerify_InvalidToken(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("ValidateToken", mock.Anything, "bogus").Return(nil, usecase.ErrTokenInvalid)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/verify", map[string]string{}, map[string]string{
		"Authorization": "Bearer bogus",
	})

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestVerify_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	uc.On("ValidateToken", mock.Anything, "good-token").
		Return(&repository.Claims{UserID: "user-1", Email: "user@example.com"}, nil)

	app := setupAuthApp(uc)
	status, body := postJSON(t, app, "/api/auth/verify", map[string]string{}, map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "user@example.com", body["email"])
}
