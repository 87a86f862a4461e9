package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmirror"
)

// Ensure LoggingSummarizer implements docmirror.Summarizer.
var _ docmirror.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   docmirror.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next docmirror.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, content []byte) (summary *docmirror.Summary, err error) {
	defer func(begin time.Time) {
		topics := 0
		if summary != nil {
			topics = len(summary.Topics)
		}
		s.logger.Info("summarize",
			"bytes", len(content),
			"topics", topics,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, content)
}
