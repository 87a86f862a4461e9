package mcp

import (
	"context"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/index"
)

type mockIndexService struct {
	IndexSourceFn func(ctx context.Context, manifestURL string, force bool) (*index.Result, error)
	IndexSiteFn   func(ctx context.Context, baseURL string, force bool) (*index.Result, error)
}

func (m *mockIndexService) IndexSource(ctx context.Context, manifestURL string, force bool) (*index.Result, error) {
	return m.IndexSourceFn(ctx, manifestURL, force)
}

func (m *mockIndexService) IndexSite(ctx context.Context, baseURL string, force bool) (*index.Result, error) {
	return m.IndexSiteFn(ctx, baseURL, force)
}

type mockAskService struct {
	AskFn func(ctx context.Context, question string) (string, []docmirror.Match, error)
}

func (m *mockAskService) Ask(ctx context.Context, question string) (string, []docmirror.Match, error) {
	return m.AskFn(ctx, question)
}
