package mcp

import (
	"context"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/index"
)

// IndexService runs index passes over documentation sources.
type IndexService interface {
	IndexSource(ctx context.Context, manifestURL string, force bool) (*index.Result, error)
	IndexSite(ctx context.Context, baseURL string, force bool) (*index.Result, error)
}

// AskService answers questions against the active source.
type AskService interface {
	Ask(ctx context.Context, question string) (string, []docmirror.Match, error)
}

// Ports aggregates the services the MCP server depends on.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Indexer runs index passes.
	Indexer IndexService

	// State manages the persisted source registry.
	State docmirror.StateService

	// Contents stores document content by hash.
	Contents docmirror.ContentStore

	// Asker answers questions. Optional; when nil the ask tool is not
	// registered.
	Asker AskService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Indexer == nil {
		return ErrMissingIndexer
	}
	if p.State == nil {
		return ErrMissingState
	}
	if p.Contents == nil {
		return ErrMissingContents
	}
	return nil
}
