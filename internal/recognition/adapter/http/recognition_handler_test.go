package http_test

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	rechttp "cardvault/internal/recognition/adapter/http"
	"cardvault/internal/recognition/domain/client"
	"cardvault/internal/recognition/usecase"
	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecognitionUsecase struct {
	mock.Mock
}

func (m *mockRecognitionUsecase) Recognize(ctx context.Context, req usecase.RecognizeRequest) (*client.ProviderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ProviderResponse), args.Error(1)
}

func passthroughProtect(c *fiber.Ctx) error { return c.Next() }

func setupRecognitionApp(uc usecase.RecognitionUsecaseInterface) *fiber.App {
	app := fiber.New()
	handler := rechttp.NewRecognitionHTTPHandler(uc, logger.NewLogger())
	handler.SetupRecognitionRoutes(app.Group("/api"), passthroughProtect)
	return app
}

func postRecognize(t *testing.T, app *fiber.App, body string) (int, string, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/recognize", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get(fiber.HeaderContentType), raw
}

func TestRecognize_RelaysProviderResponse(t *testing.T) {
	uc := &mockRecognitionUsecase{}
	uc.On("Recognize", mock.Anything, mock.Anything).Return(&client.ProviderResponse{
		StatusCode: 200,
		Body:       []byte(`{"content":[{"type":"text","text":"2023 Topps Chrome #100"}]}`),
	}, nil)

	app := setupRecognitionApp(uc)
	status, contentType, body := postRecognize(t, app, `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, 200, status)
	assert.Contains(t, contentType, fiber.MIMEApplicationJSON)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"2023 Topps Chrome #100"}]}`, string(body))
}

func TestRecognize_RelaysUpstreamErrorStatus(t *testing.T) {
	uc := &mockRecognitionUsecase{}
	uc.On("Recognize", mock.Anything, mock.Anything).Return(&client.ProviderResponse{
		StatusCode: 529,
		Body:       []byte(`{"type":"error","error":{"type":"overloaded_error"}}`),
	}, nil)

	app := setupRecognitionApp(uc)
	status, _, body := postRecognize(t, app, `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, 529, status)
	assert.JSONEq(t, `{"type":"error","error":{"type":"overloaded_error"}}`, string(body))
}

func TestRecognize_MissingMessagesBadRequest(t *testing.T) {
	uc := &mockRecognitionUsecase{}
	uc.On("Recognize", mock.Anything, mock.Anything).Return(nil, usecase.ErrMissingMessages)

	app := setupRecognitionApp(uc)
	status, _, body := postRecognize(t, app, `{}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), usecase.ErrMissingMessages.Error())
}

func TestRecognize_OversizedPayloadTooLarge(t *testing.T) {
	uc := &mockRecognitionUsecase{}
	uc.On("Recognize", mock.Anything, mock.Anything).Return(nil, usecase.ErrPayloadTooLarge)

	app := setupRecognitionApp(uc)
	status, _, _ := postRecognize(t, app, `{"messages":[]}`)

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
}

func TestRecognize_MalformedBody(t *testing.T) {
	uc := &mockRecognitionUsecase{}
	app := setupRecognitionApp(uc)

	status, _, body := postRecognize(t, app, `{not json`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "Invalid request body")
	uc.AssertNotCalled(t, "Recognize")
}
