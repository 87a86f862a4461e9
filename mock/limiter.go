package mock

import (
	"context"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docmirror.DomainLimiter.
// A nil WaitFn never blocks.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
