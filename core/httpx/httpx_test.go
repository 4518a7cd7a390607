package httpx_test

import (
	"testing"
	"time"

	"item-mirror/core/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	t.Run("DirectOnly", func(t *testing.T) {
		routes, err := httpx.Routes(httpx.Config{URL: "http://127.0.0.1:10808"}, time.Second)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, httpx.RouteDirect, routes[0].Name)
		assert.Equal(t, time.Second, routes[0].Client.Timeout)
	})

	t.Run("ProxyFirst", func(t *testing.T) {
		routes, err := httpx.Routes(httpx.Config{URL: "http://127.0.0.1:10808", Enabled: true}, time.Second)
		require.NoError(t, err)
		require.Len(t, routes, 2)
		assert.Equal(t, httpx.RouteProxy, routes[0].Name)
		assert.Equal(t, httpx.RouteDirect, routes[1].Name)
	})

	t.Run("InvalidProxy", func(t *testing.T) {
		_, err := httpx.Routes(httpx.Config{URL: "://bad", Enabled: true}, time.Second)
		assert.Error(t, err)
	})

	t.Run("DefaultTimeout", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, httpx.NewClient(0, nil).Timeout)
	})
}
