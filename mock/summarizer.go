package mock

import (
	"context"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of docmirror.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, content []byte) (*docmirror.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, content []byte) (*docmirror.Summary, error) {
	return s.SummarizeFn(ctx, content)
}
