package mock

import (
	"context"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of docmirror.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, question string, docs []*docmirror.AnswerDocument) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, question string, docs []*docmirror.AnswerDocument) (string, error) {
	return a.AnswerFn(ctx, question, docs)
}
