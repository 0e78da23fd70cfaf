package http

import (
	"errors"

	"cardvault/internal/recognition/usecase"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// RecognitionHTTPHandler handles HTTP requests for card recognition
type RecognitionHTTPHandler struct {
	usecase usecase.RecognitionUsecaseInterface
	log     logger.Logger
}

// NewRecognitionHTTPHandler creates a new recognition HTTP handler
func NewRecognitionHTTPHandler(uc usecase.RecognitionUsecaseInterface, log logger.Logger) *RecognitionHTTPHandler {
	return &RecognitionHTTPHandler{
		usecase: uc,
		log:     log.WithComponent("recognition_http"),
	}
}

// SetupRecognitionRoutes sets up recognition routes behind the auth middleware
func (h *RecognitionHTTPHandler) SetupRecognitionRoutes(router fiber.Router, protect fiber.Handler) {
	router.Post("/recognize", protect, h.Recognize)
}

// Recognize proxies a recognition request to the external provider and relays
// its response verbatim.
func (h *RecognitionHTTPHandler) Recognize(c *fiber.Ctx) error {
	var req usecase.RecognizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.usecase.Recognize(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingMessages):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, usecase.ErrPayloadTooLarge):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.log.WithContext(c.UserContext()).Errorf("recognition failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(resp.StatusCode).Send(resp.Body)
}
