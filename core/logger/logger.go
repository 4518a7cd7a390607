package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared by every component.
const (
	RayIDKey = "ray_id"
	RunIDKey = "run_id"
	StageKey = "stage"
)

// New creates a zap logger from cfg. Debug uses the development preset with
// ISO8601 timestamps; every other level uses the production preset.
func New(cfg *Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = lvl
	}

	config := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals(RayIDKey).(string); ok && rid != "" {
		return l.With(zap.String(RayIDKey, rid))
	}
	return l
}

// ForRun returns a logger tagged with a pipeline run id and stage name.
func ForRun(l *zap.Logger, runID, stage string) *zap.Logger {
	return l.With(zap.String(RunIDKey, runID), zap.String(StageKey, stage))
}
