package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"resty.dev/v3"
)

// DefaultTimeout bounds a single blueprint request.
const DefaultTimeout = 10 * time.Second

// HTTP fetches a blueprint with a single GET request.
type HTTP struct {
	url    string
	client *resty.Client
}

// NewHTTP creates a loader for url. A non-positive timeout selects
// DefaultTimeout.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTP{url: url, client: client}
}

// Location returns the request URL.
func (h *HTTP) Location() string {
	return h.url
}

// Load performs the request. A response outside the 2xx range fails with
// "HTTP error! status: <code>".
func (h *HTTP) Load(ctx context.Context) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Requesting blueprint.", "url", h.url)

	resp, err := h.client.R().SetContext(ctx).Get(h.url)
	if err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	logger.Debug("Blueprint response received.", "status", status)
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", status)
	}

	return decode([]byte(resp.String()))
}

// Close releases idle connections.
func (h *HTTP) Close() error {
	return h.client.Close()
}
