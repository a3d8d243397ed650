package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/feedcache"
	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
	"github.com/AnthoniusHendriyanto/social-core/internal/post/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/post/service"
)

type PostHandler struct {
	postService *service.PostService
	cache       *feedcache.Cache
}

func NewPostHandler(postService *service.PostService, cache *feedcache.Cache) *PostHandler {
	return &PostHandler{postService: postService, cache: cache}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var input dto.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.MediaURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mediaUrl is required"})
	}

	post, err := h.postService.Create(c.Context(), middleware.UserID(c), input.Caption, input.MediaURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create post"})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) OwnPosts(c *fiber.Ctx) error {
	posts, err := h.postService.PostsForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load posts"})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// Feed reads through the cache keyed by the authenticated caller. A request
// without an identity would never reach here (the route requires auth), so
// the key derivation is always `feed:{sub}`.
func (h *PostHandler) Feed(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	ctx := c.Context()

	if cached, ok, err := h.cache.Get(ctx, userID); err == nil && ok {
		return c.Status(fiber.StatusOK).JSON(cached)
	} else if err != nil {
		log.Printf("warn: feed cache read for user %s: %v", userID, err)
	}

	posts, err := h.postService.Feed(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute feed"})
	}

	if err := h.cache.Put(ctx, userID, posts); err != nil {
		log.Printf("warn: feed cache write for user %s: %v", userID, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
