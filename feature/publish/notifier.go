package publish

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"item-mirror/core/errs"
	"item-mirror/core/httpx"
	"item-mirror/core/server"

	"go.uber.org/zap"
)

// RunIDHeader carries the pipeline run id to the publish server.
const RunIDHeader = "x-run-id"

// HTTPNotifier signals the publish server after a run with changes.
type HTTPNotifier struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewHTTPNotifier creates a notifier. The request is never proxied.
func NewHTTPNotifier(cfg Config, logger *zap.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		cfg:    cfg,
		client: httpx.NewClient(time.Duration(cfg.TimeoutSeconds)*time.Second, nil),
		logger: logger,
	}
}

// Name identifies the notifier in logs.
func (n *HTTPNotifier) Name() string {
	return "sync-server"
}

// Notify posts to the publish server. Without a token it does nothing.
func (n *HTTPNotifier) Notify(ctx context.Context, runID string) error {
	if n.cfg.Token == "" {
		n.logger.Debug("Publish notifier disabled, no token configured")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set(server.TokenHeader, n.cfg.Token)
	req.Header.Set(RunIDHeader, runID)

	resp, err := n.client.Do(req)
	if err != nil {
		return &errs.TransportError{Op: "notify", URL: n.cfg.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &errs.TransportError{Op: "notify", URL: n.cfg.URL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	n.logger.Info("sync-server notified", zap.Int("status", resp.StatusCode))
	return nil
}
