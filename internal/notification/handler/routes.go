package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *NotificationHandler, requireAuth fiber.Handler) {
	notifications := app.Group("/api/v1/notifications", requireAuth)
	notifications.Get("/", h.List)
	notifications.Post("/read-all", h.MarkAllRead)
	notifications.Post("/:id/read", h.MarkRead)
}
