package mock

import (
	"context"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docmirror.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, reference string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, reference string) ([]byte, error) {
	return f.FetchFn(ctx, reference)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
