package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/service"
)

type UserHandler struct {
	graphService *service.GraphService
}

func NewUserHandler(graphService *service.GraphService) *UserHandler {
	return &UserHandler{graphService: graphService}
}

func (h *UserHandler) Follow(c *fiber.Ctx) error {
	followerID := middleware.UserID(c)
	followingID := c.Params("id")

	if err := h.graphService.Follow(c.Context(), followerID, followingID); err != nil {
		return graphError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.AckOutput{
		Success: true,
		Message: "User followed successfully.",
	})
}

func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	followerID := middleware.UserID(c)
	followingID := c.Params("id")

	if err := h.graphService.Unfollow(c.Context(), followerID, followingID); err != nil {
		return graphError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.AckOutput{
		Success: true,
		Message: "User unfollowed successfully.",
	})
}

func (h *UserHandler) GetFollowing(c *fiber.Ctx) error {
	list, err := h.graphService.GetFollowing(c.Context(), middleware.UserID(c))
	if err != nil {
		return graphError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

func (h *UserHandler) GetFollowers(c *fiber.Ctx) error {
	list, err := h.graphService.GetFollowers(c.Context(), middleware.UserID(c))
	if err != nil {
		return graphError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

func (h *UserHandler) GetFollowerIDs(c *fiber.Ctx) error {
	ids, err := h.graphService.FollowerIDs(c.Context(), c.Params("id"))
	if err != nil {
		return graphError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.FollowerIDsOutput{Followers: ids})
}

// graphError maps the graph mutation failures onto HTTP statuses. These are
// specific on purpose: unlike credentials, follow state carries no
// enumeration risk.
func graphError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, apperr.ErrSelfFollow):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyFollowing), errors.Is(err, apperr.ErrNotFollowing):
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
