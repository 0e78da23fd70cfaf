package http

import (
	"errors"

	"cardvault/internal/auth/usecase"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"
	"cardvault/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	log     logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, log logger.Logger) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase: uc,
		log:     log.WithComponent("auth_http"),
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/signup", h.Signup)
	router.Post("/login", h.Login)

	protected := router.Group("/", middleware.Protect())
	protected.Post("/verify", h.Verify)
}

// Signup handles user registration
func (h *AuthHTTPHandler) Signup(c *fiber.Ctx) error {
	var req usecase.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Signup(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		case errors.Is(err, usecase.ErrMissingFields),
			errors.Is(err, usecase.ErrPasswordMismatch),
			errors.Is(err, usecase.ErrPasswordTooShort),
			errors.Is(err, usecase.ErrInvalidEmailFormat):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.log.Errorf("signup failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"userId":  user.ID,
	})
}

// Login handles user login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// One generic message for unknown email and wrong password alike.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		if errors.Is(err, usecase.ErrMissingCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.log.Errorf("login failed: %v", err)
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"userId":  user.ID,
	})
}

// Verify confirms the caller's token is valid and returns the bound email.
func (h *AuthHTTPHandler) Verify(c *fiber.Ctx) error {
	email, err := utils.GetUserEmailFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"email":   email,
	})
}
