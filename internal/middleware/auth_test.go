package middleware_test

import (
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Authenticate(auth))
	handler := func(c *fiber.Ctx) error {
		id := middleware.IdentityFrom(c)
		if id == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(id.UserID)
	}
	app.All("/collections", middleware.Authorize(policy.Collections), handler)
	app.All("/carts", middleware.Authorize(policy.Carts), handler)
	return app
}

func TestAuthorize(t *testing.T) {
	auth := services.NewAuthService("secret")
	app := newTestApp(auth)

	staffToken, err := auth.IssueToken(policy.Identity{UserID: "admin", IsStaff: true})
	require.NoError(t, err)
	userToken, err := auth.IssueToken(policy.Identity{UserID: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"anonymous read", fiber.MethodGet, "/collections", "", fiber.StatusOK},
		{"anonymous write", fiber.MethodPost, "/collections", "", fiber.StatusUnauthorized},
		{"customer write", fiber.MethodPost, "/collections", "Bearer " + userToken, fiber.StatusForbidden},
		{"staff write", fiber.MethodPost, "/collections", "Bearer " + staffToken, fiber.StatusOK},
		{"anonymous cart", fiber.MethodPost, "/carts", "", fiber.StatusOK},
		{"bad scheme", fiber.MethodGet, "/carts", "Token " + userToken, fiber.StatusUnauthorized},
		{"bad token", fiber.MethodGet, "/carts", "Bearer nope", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
