package recognition

import (
	rechttp "cardvault/internal/recognition/adapter/http"
	"cardvault/internal/recognition/adapter/provider"
	"cardvault/internal/recognition/config"
	"cardvault/internal/recognition/domain/client"
	"cardvault/internal/recognition/usecase"
	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// RecognitionModule represents the complete recognition module
type RecognitionModule struct {
	provider client.MessagesProvider
	usecase  usecase.RecognitionUsecaseInterface
	handler  *rechttp.RecognitionHTTPHandler
	config   *config.Config
}

// NewRecognitionModule creates a new recognition module instance
func NewRecognitionModule(cfg *config.Config, log logger.Logger) *RecognitionModule {
	anthropicClient := provider.NewAnthropicClient(cfg)
	uc := usecase.NewRecognitionUsecase(anthropicClient, cfg, log)
	handler := rechttp.NewRecognitionHTTPHandler(uc, log)

	return &RecognitionModule{
		provider: anthropicClient,
		usecase:  uc,
		handler:  handler,
		config:   cfg,
	}
}

// RegisterRoutes registers recognition routes behind the provided auth middleware
func (rm *RecognitionModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	rm.handler.SetupRecognitionRoutes(router, protect)
}

// APIKeySet reports whether a provider API key is configured.
func (rm *RecognitionModule) APIKeySet() bool {
	return rm.config.APIKey != ""
}
