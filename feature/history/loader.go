package history

import (
	"item-mirror/core/middleware/auth"
	"item-mirror/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cfg     server.Config
	repo    *Repository
	handler *Handler
}

// NewFeature creates the history feature. db may be nil, in which case the
// feature stays disabled.
func NewFeature(cfg server.Config, db *gorm.DB, logger *zap.Logger) *Feature {
	f := &Feature{cfg: cfg}
	if db != nil {
		f.repo = NewRepository(db, logger)
		f.handler = NewHandler(f.repo, logger)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "history"
}

// IsEnabled reports whether a database is available.
func (f *Feature) IsEnabled() bool {
	return f.repo != nil
}

// Load migrates the journal and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.repo.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app, auth.New(auth.Config{Header: server.TokenHeader, Token: f.cfg.Token}))
	return nil
}
