package httpx

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Route is one way of reaching a remote host.
type Route struct {
	// Name is "proxy" or "direct", used in logs.
	Name   string
	Client *http.Client
}

const (
	RouteProxy  = "proxy"
	RouteDirect = "direct"
)

// Routes returns the routes to try in order: the proxy when enabled, then direct.
func Routes(cfg Config, timeout time.Duration) ([]Route, error) {
	var routes []Route
	if cfg.Enabled && cfg.URL != "" {
		proxyURL, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", cfg.URL, err)
		}
		routes = append(routes, Route{Name: RouteProxy, Client: NewClient(timeout, http.ProxyURL(proxyURL))})
	}
	routes = append(routes, Route{Name: RouteDirect, Client: NewClient(timeout, nil)})
	return routes, nil
}

// NewClient builds a client with a bounded overall timeout. A nil proxy
// function disables proxying, including the environment proxy.
func NewClient(timeout time.Duration, proxy func(*http.Request) (*url.URL, error)) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
