package auth_test

import (
	"net/http/httptest"
	"testing"

	"item-mirror/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(token string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{Header: "x-sync-token", Token: token}))
	app.Post("/sync", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"Valid", "secret", "secret", 200},
		{"Wrong", "secret", "nope", 403},
		{"Missing", "secret", "", 403},
		{"Disabled", "", "", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(tt.token)
			req := httptest.NewRequest("POST", "/sync", nil)
			if tt.header != "" {
				req.Header.Set("x-sync-token", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
