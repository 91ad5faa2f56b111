package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docloom/docloom"
)

// Ensure LoggingDiscoverer implements docloom.Discoverer.
var _ docloom.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with operation logging.
type LoggingDiscoverer struct {
	next   docloom.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next docloom.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped discoverer and logs the
// operation.
func (d *LoggingDiscoverer) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DiscoverURLs(ctx, baseURL)
}
