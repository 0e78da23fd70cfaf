package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"cardvault/internal/recognition/config"
	"cardvault/internal/recognition/domain/client"
)

const messagesPath = "/v1/messages"

// AnthropicClient implements the MessagesProvider port against the Anthropic
// Messages API.
type AnthropicClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	apiVersion string
}

// NewAnthropicClient creates a new Anthropic messages client. The HTTP client
// carries the configured timeout so a slow upstream cannot pin a handler
// indefinitely.
func NewAnthropicClient(cfg *config.Config) *AnthropicClient {
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		apiVersion: cfg.APIVersion,
	}
}

// CreateMessage forwards the already-serialized request payload to the provider
// and returns its status and body untouched. A non-2xx provider status is not
// an error here; the caller relays it verbatim.
func (c *AnthropicClient) CreateMessage(ctx context.Context, payload []byte) (*client.ProviderResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	return &client.ProviderResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// Ensure AnthropicClient implements MessagesProvider
var _ client.MessagesProvider = (*AnthropicClient)(nil)
