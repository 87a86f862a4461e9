package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmirror"
)

// Ensure LoggingDiscoverer implements docmirror.Discoverer.
var _ docmirror.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   docmirror.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next docmirror.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the operation.
func (d *LoggingDiscoverer) Discover(ctx context.Context, baseURL string) (entries []docmirror.ManifestEntry, err error) {
	defer func(begin time.Time) {
		d.logger.Info("site discovery",
			"url", baseURL,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Discover(ctx, baseURL)
}
