// Package slog provides logging decorators for docmirror services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmirror"
)

// Ensure LoggingFetcher implements docmirror.Fetcher.
var _ docmirror.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   docmirror.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docmirror.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, reference string) (content []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"reference", reference,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, reference)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
