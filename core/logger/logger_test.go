package logger_test

import (
	"net/http/httptest"
	"testing"

	"item-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("Console", func(t *testing.T) {
		l, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("JSONWarn", func(t *testing.T) {
		l, err := logger.New(&logger.Config{Level: "warn", Format: "json"})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("DefaultLevel", func(t *testing.T) {
		l, err := logger.New(&logger.Config{})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := logger.New(&logger.Config{Level: "loud"})
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestForRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.ForRun(zap.New(core), "run-1", "MERGING").Info("stage started")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "MERGING", fields["stage"])
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "abc")
		logger.WithRayID(base, c).Info("request")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["ray_id"])
}
