package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"item-mirror/core/database"
	"item-mirror/core/loader"
	"item-mirror/core/logger"
	"item-mirror/core/middleware/rayid"
	"item-mirror/feature/history"
	"item-mirror/feature/publish"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the publish server",
	Long:  `Starts the HTTP server that commits and pushes the published tree on POST /sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		// The run journal is optional.
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to run journal", zap.String("driver", cfg.Database.Driver))
			}
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(publish.NewFeature(cfg.Server, publish.ExecGit{}, logg))
		mgr.Register(history.NewFeature(cfg.Server, db, logg))

		// RayID must be first to trace everything.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		if len(loaded) == 0 {
			logg.Warn("No feature enabled, set SERVER_TOKEN to enable publishing")
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
