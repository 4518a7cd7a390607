package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config configures the token check.
type Config struct {
	// Header is the request header carrying the token.
	Header string
	// Token is the expected value. An empty token disables the check.
	Token string
}

// New returns a middleware rejecting requests whose header does not match the token with 403.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Token == "" {
			return c.Next()
		}
		got := c.Get(cfg.Header)
		if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.Token)) != 1 {
			return c.Status(fiber.StatusForbidden).SendString("forbidden")
		}
		return c.Next()
	}
}
