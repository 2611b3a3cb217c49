package middleware

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"ecohaat/internal/models"
	"ecohaat/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthRequired is a Fiber middleware that resolves the bearer token to a
// profile and stores it on the request.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			log.Printf("Authentication failed: %v", err)
			status := fiber.StatusUnauthorized
			message := "Invalid or expired token"
			switch {
			case errors.Is(err, services.ErrNotFound):
				status, message = fiber.StatusNotFound, "User profile not found"
			case errors.Is(err, services.ErrForbidden):
				status, message = fiber.StatusForbidden, "Access denied"
			case errors.Is(err, services.ErrUpstream):
				status, message = fiber.StatusInternalServerError, "Authentication failed"
			}
			return c.Status(status).JSON(fiber.Map{
				"message": message,
				"error":   err.Error(),
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRole only lets requests through whose profile has one of roles.
// It must run after AuthRequired.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": fmt.Sprintf("Access denied. Required roles: [%s]", strings.Join(allowed, ", ")),
		})
	}
}

// CurrentUser returns the profile stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
