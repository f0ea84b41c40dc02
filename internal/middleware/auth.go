package middleware

import (
	"strings"

	"storefront/internal/logger"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the Fiber locals key holding the caller's *policy.Identity.
const IdentityKey = "identity"

// Authenticate resolves a bearer token into the caller identity. Requests
// without an Authorization header continue anonymously; a malformed or
// invalid token is rejected with 401.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.FromCtx(c).Info("jwt validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// Authorize enforces the permission table for res, mapping the request
// method to an action.
func Authorize(res policy.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := policy.ActionFor(c.Method())
		switch policy.Evaluate(res, action, policy.RoleOf(IdentityFrom(c))) {
		case policy.Allow:
			return c.Next()
		case policy.DenyUnauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication credentials were not provided",
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have permission to perform this action",
			})
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate, or nil for
// anonymous requests.
func IdentityFrom(c *fiber.Ctx) *policy.Identity {
	id, _ := c.Locals(IdentityKey).(*policy.Identity)
	return id
}
