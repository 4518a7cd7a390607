package loader_test

import (
	"errors"
	"testing"

	"item-mirror/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &stubFeature{name: "publish", enabled: true}
		off := &stubFeature{name: "history"}

		mgr := loader.NewManager()
		mgr.Register(on)
		mgr.Register(off)

		names, err := mgr.LoadAll(fiber.New())
		require.NoError(t, err)
		assert.Equal(t, []string{"publish"}, names)
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		bad := &stubFeature{name: "publish", enabled: true, err: errors.New("boom")}
		next := &stubFeature{name: "history", enabled: true}

		mgr := loader.NewManager()
		mgr.Register(bad)
		mgr.Register(next)

		_, err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "load feature publish")
		assert.False(t, next.loaded)
	})
}
