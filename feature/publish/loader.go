package publish

import (
	"item-mirror/core/middleware/auth"
	"item-mirror/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cfg     server.Config
	handler *Handler
}

// NewFeature creates the publish feature.
func NewFeature(cfg server.Config, git GitRunner, logger *zap.Logger) *Feature {
	svc := NewService(cfg, git, logger)
	return &Feature{cfg: cfg, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "publish"
}

// IsEnabled reports whether a publish token is configured.
func (f *Feature) IsEnabled() bool {
	return f.cfg.IsProtected()
}

// Load registers the feature's routes behind the token check.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app, auth.New(auth.Config{Header: server.TokenHeader, Token: f.cfg.Token}))
	return nil
}
