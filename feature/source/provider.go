package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"item-mirror/core/errs"
	"item-mirror/core/httpx"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Provider fetches the upstream archive and its version.
type Provider interface {
	// RemoteVersion returns the upstream version signature.
	RemoteVersion(ctx context.Context) (string, error)
	// Download returns the raw archive bytes.
	Download(ctx context.Context) ([]byte, error)
}

// GitHub fetches branch archives from GitHub.
type GitHub struct {
	cfg        Config
	routes     []httpx.Route
	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewGitHub creates a GitHub provider.
func NewGitHub(cfg Config, proxy httpx.Config, logger *zap.Logger) (*GitHub, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	routes, err := httpx.Routes(proxy, timeout)
	if err != nil {
		return nil, err
	}
	maxElapsed := time.Duration(cfg.RetryMaxElapsedSeconds) * time.Second
	if maxElapsed <= 0 {
		maxElapsed = time.Minute
	}
	return &GitHub{cfg: cfg, routes: routes, maxElapsed: maxElapsed, logger: logger}, nil
}

// RemoteVersion returns the head commit SHA of the configured branch.
func (g *GitHub) RemoteVersion(ctx context.Context) (string, error) {
	url := g.cfg.CommitURL()
	var failures []error
	for _, route := range g.routes {
		body, err := g.get(ctx, route.Client, url, "application/vnd.github.sha")
		if err == nil {
			sha := string(bytes.TrimSpace(body))
			if sha == "" {
				err = errors.New("empty sha")
			} else {
				return sha, nil
			}
		}
		g.logger.Warn("Remote version lookup failed", zap.String("route", route.Name), zap.Error(err))
		failures = append(failures, fmt.Errorf("%s: %w", route.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", &errs.TransportError{Op: "remote version", URL: url, Err: errors.Join(failures...)}
}

// Download fetches the branch archive, retrying each route before falling back to the next.
func (g *GitHub) Download(ctx context.Context) ([]byte, error) {
	url := g.cfg.ZipURL()
	var failures []error
	for _, route := range g.routes {
		var body []byte
		op := func() error {
			b, err := g.get(ctx, route.Client, url, "")
			if err != nil {
				var status *statusError
				if errors.As(err, &status) && status.code < http.StatusInternalServerError && status.code != http.StatusTooManyRequests {
					return backoff.Permanent(err)
				}
				g.logger.Debug("Archive download attempt failed", zap.String("route", route.Name), zap.Error(err))
				return err
			}
			body = b
			return nil
		}

		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = g.maxElapsed
		err := backoff.Retry(op, backoff.WithContext(bo, ctx))
		if err == nil {
			g.logger.Info("Archive downloaded", zap.String("route", route.Name), zap.Int("bytes", len(body)))
			return body, nil
		}
		g.logger.Warn("Archive download failed", zap.String("route", route.Name), zap.Error(err))
		failures = append(failures, fmt.Errorf("%s: %w", route.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, &errs.TransportError{Op: "download archive", URL: url, Err: errors.Join(failures...)}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (g *GitHub) get(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "token "+g.cfg.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
