package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
	"github.com/AnthoniusHendriyanto/social-core/internal/notification/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := h.notificationService.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load notifications"})
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkRead(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark notification read"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(c.Context(), middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark notifications read"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "all notifications marked as read"})
}
