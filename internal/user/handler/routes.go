package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *UserHandler, requireAuth fiber.Handler) {
	users := app.Group("/api/v1/users", requireAuth)
	users.Post("/:id/follow", h.Follow)
	users.Delete("/:id/follow", h.Unfollow)
	users.Get("/following", h.GetFollowing)
	users.Get("/followers", h.GetFollowers)
	users.Get("/:id/follower-ids", h.GetFollowerIDs)
}
