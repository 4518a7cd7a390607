package history

import (
	"item-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the run journal.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the history routes behind the given middleware.
func (h *Handler) RegisterRoutes(app fiber.Router, middleware ...fiber.Handler) {
	handlers := append(middleware, h.HandleRecent)
	app.Get("/runs", handlers...)
}

// HandleRecent returns the most recent runs. The optional limit query
// parameter defaults to DefaultLimit.
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	runs, err := h.repo.Recent(c.UserContext(), c.QueryInt("limit", DefaultLimit))
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(runs)
}
