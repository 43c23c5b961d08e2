package replaytool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/scoring"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends body as JSON and decodes a 2xx JSON reply into out. Non-2xx
// replies are returned as ErrRemote with the server's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemote, method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrRemote, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		return fmt.Errorf("%w: %s %s: %d %s: %s", ErrRemote, method, path, resp.StatusCode, e.Code, e.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// remoteReport uploads sections as match and derives the report on the
// server.
func remoteReport(ctx context.Context, cfg *Config, sections []model.Section, winner model.Side) (*Report, error) {
	c := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	base := "/matches/" + url.PathEscape(cfg.Match)
	query := "?default_winner=" + url.QueryEscape(winner.String())

	if err := c.do(ctx, http.MethodPut, base+"/sections", sections, nil); err != nil {
		return nil, err
	}
	var tl struct {
		Points []scoring.PointScore `json:"points"`
	}
	if err := c.do(ctx, http.MethodGet, base+"/timeline"+query, nil, &tl); err != nil {
		return nil, err
	}
	var gs struct {
		Games []model.Game `json:"games"`
	}
	if err := c.do(ctx, http.MethodGet, base+"/games"+query, nil, &gs); err != nil {
		return nil, err
	}
	return newReport(tl.Points, gs.Games), nil
}
