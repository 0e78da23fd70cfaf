package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"cardvault/internal/recognition/config"
	"cardvault/internal/recognition/domain/client"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"
)

var (
	ErrMissingMessages = errors.New("messages array is required")
	ErrPayloadTooLarge = errors.New("request payload exceeds the size limit")
)

// RecognizeRequest is the inbound proxy request. Messages and Tools stay raw:
// the proxy validates shape and size but never interprets their content.
type RecognizeRequest struct {
	Messages  json.RawMessage `json:"messages"`
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Tools     json.RawMessage `json:"tools"`
}

// RecognitionUsecaseInterface defines the contract for recognition use cases.
type RecognitionUsecaseInterface interface {
	Recognize(ctx context.Context, req RecognizeRequest) (*client.ProviderResponse, error)
}

// RecognitionUsecase validates, caps and default-fills recognition requests
// before forwarding them to the external provider.
type RecognitionUsecase struct {
	provider client.MessagesProvider
	config   *config.Config
	log      logger.Logger
}

// NewRecognitionUsecase creates a new instance of RecognitionUsecase.
func NewRecognitionUsecase(provider client.MessagesProvider, cfg *config.Config, log logger.Logger) *RecognitionUsecase {
	return &RecognitionUsecase{
		provider: provider,
		config:   cfg,
		log:      log.WithComponent("recognition_usecase"),
	}
}

// Recognize forwards a chat-style message payload to the provider and returns
// its response unchanged. Oversized payloads are rejected before any provider
// call is made.
func (uc *RecognitionUsecase) Recognize(ctx context.Context, req RecognizeRequest) (*client.ProviderResponse, error) {
	if !isJSONArray(req.Messages) {
		return nil, ErrMissingMessages
	}
	if len(req.Messages) > uc.config.MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	model := req.Model
	if model == "" {
		model = uc.config.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = uc.config.DefaultMaxTokens
	}

	outbound := map[string]interface{}{
		"model":      model,
		"max_tokens": maxTokens,
		"messages":   req.Messages,
	}
	// Optional capability passthrough: forwarded only when it is a sequence.
	if isJSONArray(req.Tools) {
		outbound["tools"] = req.Tools
	}

	payload, err := json.Marshal(outbound)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to serialize provider payload").
			WithCause(err).WithComponent("recognition_usecase")
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.config.RequestTimeout)
	defer cancel()

	resp, err := uc.provider.CreateMessage(callCtx, payload)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("recognition provider call failed").
			WithCause(err).WithComponent("recognition_usecase")
	}

	uc.log.WithContext(ctx).Debugf("provider responded with status %d", resp.StatusCode)
	return resp, nil
}

// isJSONArray reports whether raw holds a JSON array.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Ensure RecognitionUsecase implements RecognitionUsecaseInterface
var _ RecognitionUsecaseInterface = (*RecognitionUsecase)(nil)
