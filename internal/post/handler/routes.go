package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *PostHandler, requireAuth fiber.Handler) {
	posts := app.Group("/api/v1/posts", requireAuth)
	posts.Post("/", h.Create)
	posts.Get("/", h.OwnPosts)
	posts.Get("/feed", h.Feed)
}
