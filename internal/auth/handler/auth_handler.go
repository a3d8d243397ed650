package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/social-core/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/service"
	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	out, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, apperr.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "registration failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenPair, err := h.authService.Login(c.Context(), input)
	if err != nil {
		// Always the same body: no detail distinguishes a wrong password
		// from an unknown email.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": apperr.ErrInvalidCredentials.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.authService.Refresh(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": apperr.ErrInvalidCredentials.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "logout failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}
