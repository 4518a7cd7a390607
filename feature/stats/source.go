package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"item-mirror/core/errs"
	"item-mirror/core/httpx"
	"item-mirror/core/utils"

	"go.uber.org/zap"
)

// Polarity decides the accent colors of an injected stat.
type Polarity int

const (
	PolarityNeutral Polarity = iota
	PolarityPositive
	PolarityNegative
)

const (
	AccentPositive = "53C353"
	AccentNegative = "FF4D4D"
)

// Stat is one supplemental stat entry.
type Stat struct {
	Key       string
	Name      map[string]string
	Min       float64
	Max       float64
	Polarity  Polarity
	Formatted map[string]string
}

// IsEmpty reports whether the entry carries neither a key nor a name.
func (s Stat) IsEmpty() bool {
	return s.Key == "" && len(s.Name) == 0
}

// Record is one item returned by the stat service.
type Record struct {
	ID       string
	CustomID string
	Key      string
	Stats    []Stat
}

// Identifiers returns the non-empty identifiers of r.
func (r Record) Identifiers() []string {
	var ids []string
	for _, id := range []string{r.ID, r.CustomID, r.Key} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Source fetches stat records.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// HTTPSource fetches records over HTTP, through the proxy first when enabled.
type HTTPSource struct {
	url    string
	routes []httpx.Route
	logger *zap.Logger
}

// NewHTTPSource creates a source for cfg.URL.
func NewHTTPSource(cfg Config, proxy httpx.Config, logger *zap.Logger) (*HTTPSource, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	routes, err := httpx.Routes(proxy, timeout)
	if err != nil {
		return nil, err
	}
	return &HTTPSource{url: cfg.URL, routes: routes, logger: logger}, nil
}

// Fetch tries every route in order and returns the first decoded response.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Record, error) {
	var failures []error
	for _, route := range s.routes {
		records, err := s.fetch(ctx, route.Client)
		if err == nil {
			s.logger.Info("Stat records received", zap.String("route", route.Name), zap.Int("count", len(records)))
			return records, nil
		}
		s.logger.Warn("Stat fetch failed", zap.String("route", route.Name), zap.Error(err))
		failures = append(failures, fmt.Errorf("%s: %w", route.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, &errs.TransportError{Op: "fetch stats", URL: s.url, Err: errors.Join(failures...)}
}

func (s *HTTPSource) fetch(ctx context.Context, client *http.Client) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(body)
}

type recordWire struct {
	ID       any `json:"id"`
	CustomID any `json:"custom_id"`
	Key      any `json:"key"`
	AddInfo  struct {
		AddStats []statWire `json:"addStats"`
	} `json:"add_info"`
}

type statWire struct {
	IsPositive     any             `json:"isPositive"`
	Name           json.RawMessage `json:"name"`
	Key            any             `json:"key"`
	MinValue       any             `json:"minValue"`
	MaxValue       any             `json:"maxValue"`
	FormattedValue map[string]any  `json:"formattedValue"`
}

// DecodeRecords decodes the stat service response body. Identifiers may be
// strings or numbers and are normalised to strings.
func DecodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var wire []recordWire
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode stat records: %w", err)
	}

	records := make([]Record, 0, len(wire))
	for _, w := range wire {
		r := Record{
			ID:       utils.ToString(w.ID),
			CustomID: utils.ToString(w.CustomID),
			Key:      utils.ToString(w.Key),
		}
		for _, sw := range w.AddInfo.AddStats {
			r.Stats = append(r.Stats, sw.stat())
		}
		records = append(records, r)
	}
	return records, nil
}

func (w statWire) stat() Stat {
	s := Stat{
		Key:       utils.ToString(w.Key),
		Name:      localeMap(w.Name),
		Min:       utils.ToFloat(w.MinValue),
		Max:       utils.ToFloat(w.MaxValue),
		Formatted: stringMap(w.FormattedValue),
	}
	if positive, ok := w.IsPositive.(bool); ok {
		if positive {
			s.Polarity = PolarityPositive
		} else {
			s.Polarity = PolarityNegative
		}
	}
	return s
}

// localeMap accepts only an object of locale strings; any other shape has no lines.
func localeMap(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil
	}
	return stringMap(m)
}

func stringMap(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = utils.ToString(v)
	}
	return out
}
