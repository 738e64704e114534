// Package machine talks to the espresso controller over its HTTP and
// WebSocket protocol. All retry/timeout policy lives here; the codec
// layer only ever sees complete in-memory buffers.
package machine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"crema/internal/logger"
)

const (
	defaultTimeout = 15 * time.Second

	// The controller caps history files well below this; the limit only
	// guards against a misbehaving device streaming forever.
	maxFileSize = 8 << 20 // 8 MB

	indexPath = "/api/history/index"
	shotPath  = "/api/history/shot/%d"
)

// Client fetches raw history files from the controller.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient builds a client for the controller at host ("gaggia.local"
// or "192.168.4.1:80"). Raw bytes only: decoding is the codec's job.
func NewClient(host string, log *logger.Logger) *Client {
	return &Client{
		baseURL: "http://" + host,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// FetchIndex downloads the raw SIDX file.
func (c *Client) FetchIndex(ctx context.Context) ([]byte, error) {
	return c.get(ctx, indexPath)
}

// FetchShot downloads the raw SLOG file for one shot id.
func (c *Client) FetchShot(ctx context.Context, id uint32) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf(shotPath, id))
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: controller returned %s", path, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("fetch %s: file exceeds %d bytes", path, maxFileSize)
	}
	if c.log != nil {
		c.log.Debugw("fetched history file", "path", path, "bytes", len(data))
	}
	return data, nil
}
