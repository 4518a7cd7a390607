package publish

import (
	"errors"

	"item-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles publish requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the publish route behind the given middleware.
func (h *Handler) RegisterRoutes(app fiber.Router, middleware ...fiber.Handler) {
	handlers := append(middleware, h.HandleSync)
	app.Post("/sync", handlers...)
}

// HandleSync commits and pushes the published folder.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if runID := c.Get(RunIDHeader); runID != "" {
		l = l.With(zap.String("run_id", runID))
	}

	result, err := h.service.Publish(c.UserContext())
	if errors.Is(err, ErrBusy) {
		l.Warn("Publish rejected, lock held")
		return c.Status(fiber.StatusConflict).SendString("busy")
	}
	if err != nil {
		l.Error("Publish failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("error")
	}

	l.Info("Publish finished", zap.String("result", string(result)))
	return c.SendString(string(result))
}
