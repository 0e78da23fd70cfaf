package client

import "context"

// ProviderResponse carries the upstream provider's reply verbatim; the proxy
// adds no semantics beyond validation, size-capping and default-filling.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
}

// MessagesProvider is the port to the external LLM messages API.
type MessagesProvider interface {
	CreateMessage(ctx context.Context, payload []byte) (*ProviderResponse, error)
}
