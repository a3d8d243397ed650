package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/social-core/internal/auth/service"
)

const (
	localUserID = "userID"
	localEmail  = "email"
)

type AccessTokenVerifier interface {
	VerifyAccessToken(tokenString string) (*service.JWTCustomClaims, error)
}

// RequireAuth rejects requests without a valid bearer access token and makes
// the token's identity available to handlers. The acting user is always the
// token subject; handlers never trust a user id from the request body.
func RequireAuth(verifier AccessTokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing access token"})
		}

		claims, err := verifier.VerifyAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid access token"})
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localEmail, claims.Email)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// UserID returns the authenticated caller's id, or "" when the route is
// reachable without RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}
