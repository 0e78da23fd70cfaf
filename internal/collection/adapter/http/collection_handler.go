package http

import (
	"cardvault/internal/collection/domain/model"
	"cardvault/internal/collection/usecase"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"
	"cardvault/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// CollectionHTTPHandler handles HTTP requests for card collections
type CollectionHTTPHandler struct {
	usecase usecase.CollectionUsecaseInterface
	log     logger.Logger
}

// NewCollectionHTTPHandler creates a new collection HTTP handler
func NewCollectionHTTPHandler(uc usecase.CollectionUsecaseInterface, log logger.Logger) *CollectionHTTPHandler {
	return &CollectionHTTPHandler{
		usecase: uc,
		log:     log.WithComponent("collection_http"),
	}
}

// SetupCollectionRoutes sets up collection routes behind the auth middleware
func (h *CollectionHTTPHandler) SetupCollectionRoutes(router fiber.Router, protect fiber.Handler) {
	group := router.Group("/", protect)
	group.Get("/:userId", h.GetCollection)
	group.Post("/:userId", h.SaveCollection)
	group.Get("/:userId/history", h.GetPriceHistory)
}

// authorize rejects requests whose path userId does not match the authenticated
// identity. The collection is exclusively owned by its user; there is no
// sharing path.
func (h *CollectionHTTPHandler) authorize(c *fiber.Ctx) (string, bool) {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return "", false
	}
	if c.Params("userId") != userID {
		return "", false
	}
	return userID, true
}

// GetCollection returns the user's card inventory.
func (h *CollectionHTTPHandler) GetCollection(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	cards, err := h.usecase.GetCollection(c.UserContext(), userID)
	if err != nil {
		h.log.WithContext(c.UserContext()).Errorf("get collection failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"cards":  cards,
		"synced": true,
	})
}

// SaveCollection upserts the user's card inventory and reports its value.
func (h *CollectionHTTPHandler) SaveCollection(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	var req struct {
		Cards model.CardMap `json:"cards"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Cards == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing cards data",
		})
	}

	totalValue, err := h.usecase.SaveCollection(c.UserContext(), userID, req.Cards)
	if err != nil {
		h.log.WithContext(c.UserContext()).Errorf("save collection failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"synced":     true,
		"totalValue": totalValue,
	})
}

// GetPriceHistory returns the bounded value history for the user.
func (h *CollectionHTTPHandler) GetPriceHistory(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	history, err := h.usecase.GetPriceHistory(c.UserContext(), userID)
	if err != nil {
		h.log.WithContext(c.UserContext()).Errorf("get price history failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"priceHistory": history,
		"success":      true,
	})
}
