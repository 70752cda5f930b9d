package middleware

import (
	"strings"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		tokenString := parts[1]

		// Validate token
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is inactive"})
		}

		// Set user info in context for downstream handlers
		c.Locals("user", user)
		c.Locals("user_id", claims.UserID.String())

		return c.Next()
	}
}

// RequirePermission checks the resolved permission set of the authenticated user
func RequirePermission(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*model.User)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No user found in context"})
		}

		if !user.HasPermission(key) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + key + "' permission",
			})
		}

		return c.Next()
	}
}

// RequireCriticalPermission gates operations that only a super admin holding
// the flag may perform
func RequireCriticalPermission(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*model.User)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No user found in context"})
		}

		if !user.HasCriticalPermission(key) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: '" + key + "' requires super admin",
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user placed in context by RequireAuth
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}
