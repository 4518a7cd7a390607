package rayid

import (
	"item-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the response header echoing the request id.
	Header = "X-Ray-ID"
	// LocalsKey is the fiber.Ctx locals key read by logger.WithRayID.
	LocalsKey = logger.RayIDKey
)

// New returns a middleware assigning every request a RayID. An incoming
// X-Ray-ID header is reused so callers can correlate across services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
