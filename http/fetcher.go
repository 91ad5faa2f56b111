// Package http fetches pages and discovers sitemap URLs over plain
// HTTP. It is suitable for static documentation sites that render
// without JavaScript.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/docloom/docloom"
)

// DefaultFetchTimeout bounds a single page request.
const DefaultFetchTimeout = 10 * time.Second

const userAgent = "docloom/1.0 (+https://github.com/docloom/docloom)"

// Ensure Fetcher implements docloom.Fetcher at compile time.
var _ docloom.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over HTTP GET.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFetcher creates an HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content of url. Non-200 responses and
// transport failures return EUNAVAILABLE so callers can retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docloom.Errorf(docloom.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", docloom.Errorf(docloom.EUNAVAILABLE, "request failed for %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", docloom.Errorf(docloom.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", docloom.Errorf(docloom.EUNAVAILABLE, "reading response for %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. A no-op for the HTTP client.
func (f *Fetcher) Close() error {
	return nil
}
