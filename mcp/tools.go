package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/index"
)

// IndexInput is the input schema for the index_documentation tool.
type IndexInput struct {
	URL   string `json:"url" jsonschema:"URL of a documentation manifest, or the site base URL when site is true"`
	Force bool   `json:"force,omitempty" jsonschema:"re-summarize documents even when their content is unchanged"`
	Site  bool   `json:"site,omitempty" jsonschema:"discover documents by crawling the site instead of fetching a manifest"`
}

// IndexOutput is the output schema for the index_documentation tool.
type IndexOutput struct {
	SourceID          string   `json:"source_id"`
	Name              string   `json:"name"`
	DocumentCount     int      `json:"document_count"`
	Succeeded         int      `json:"succeeded"`
	FailedReferences  []string `json:"failed_references,omitempty"`
	SummarizeFailures []string `json:"summarize_failures,omitempty"`
	FromCache         bool     `json:"from_cache"`
}

// ListInput is the input schema for the list_documentation_sources tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documentation_sources tool.
type ListOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput describes one indexed source.
type SourceOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	IndexedAt     string `json:"indexed_at"`
	Active        bool   `json:"active"`
}

// UseInput is the input schema for the set_active_documentation tool.
type UseInput struct {
	Source string `json:"source" jsonschema:"ID or manifest URL of the source to make active"`
}

// UseOutput is the output schema for the set_active_documentation tool.
type UseOutput struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
}

// QueryInput is the input schema for the query_documentation tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"terms to match against document topics and summaries"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// QueryOutput is the output schema for the query_documentation tool.
type QueryOutput struct {
	SourceID string            `json:"source_id"`
	Matches  []docmirror.Match `json:"matches"`
	Count    int               `json:"count"`
}

// ReadInput is the input schema for the read_document tool.
type ReadInput struct {
	Reference string `json:"reference" jsonschema:"document URL as listed by query_documentation"`
	Source    string `json:"source,omitempty" jsonschema:"source ID to read from (default the active source)"`
}

// ReadOutput is the output schema for the read_document tool.
type ReadOutput struct {
	Reference string   `json:"reference"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	Content   string   `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the active source's documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string            `json:"answer"`
	Sources []docmirror.Match `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_documentation",
		Description: "Index a documentation site so it can be queried",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documentation_sources",
		Description: "List all indexed documentation sources",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_active_documentation",
		Description: "Select which indexed source queries run against",
	}, s.handleUse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documentation",
		Description: "Find documents in the active source by topic and summary",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_document",
		Description: "Read the full markdown content of an indexed document",
	}, s.handleRead)

	if s.ports.Asker != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using the active source's documents",
		}, s.handleAsk)
	}
}

// handleIndex handles the index_documentation tool invocation. The
// first indexed source becomes active automatically.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if input.URL == "" {
		return nil, IndexOutput{}, docmirror.Errorf(docmirror.EINVALID, "url is required")
	}

	var (
		result *index.Result
		err    error
	)
	if input.Site {
		result, err = s.ports.Indexer.IndexSite(ctx, input.URL, input.Force)
	} else {
		result, err = s.ports.Indexer.IndexSource(ctx, input.URL, input.Force)
	}
	if err != nil {
		return nil, IndexOutput{}, err
	}

	if _, err := s.ports.State.Active(); docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
		if err := s.ports.State.SetActive(ctx, result.SourceID); err != nil {
			return nil, IndexOutput{}, err
		}
	}

	return nil, IndexOutput{
		SourceID:          result.SourceID,
		Name:              result.Name,
		DocumentCount:     result.DocumentCount,
		Succeeded:         result.Succeeded,
		FailedReferences:  result.FailedReferences,
		SummarizeFailures: result.SummarizeFailures,
		FromCache:         result.FromCache,
	}, nil
}

// handleList handles the list_documentation_sources tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	sources := s.ports.State.List()
	active, _ := s.ports.State.Active()

	output := ListOutput{
		Sources: make([]SourceOutput, len(sources)),
		Count:   len(sources),
	}
	for i, src := range sources {
		output.Sources[i] = SourceOutput{
			ID:            src.ID,
			Name:          src.Name,
			DocumentCount: src.DocumentCount(),
			IndexedAt:     src.IndexedAt.Format(time.RFC3339),
			Active:        active != nil && active.ID == src.ID,
		}
	}
	return nil, output, nil
}

// handleUse handles the set_active_documentation tool invocation.
func (s *Server) handleUse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UseInput,
) (*mcp.CallToolResult, UseOutput, error) {
	if input.Source == "" {
		return nil, UseOutput{}, docmirror.Errorf(docmirror.EINVALID, "source is required")
	}

	sourceID := docmirror.NormalizeSourceID(input.Source)
	if err := s.ports.State.SetActive(ctx, sourceID); err != nil {
		return nil, UseOutput{}, err
	}

	src, err := s.ports.State.Source(sourceID)
	if err != nil {
		return nil, UseOutput{}, err
	}
	return nil, UseOutput{SourceID: src.ID, Name: src.Name}, nil
}

// handleQuery handles the query_documentation tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	src, err := s.ports.State.Active()
	if err != nil {
		return nil, QueryOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	matches := docmirror.ResolveQuery(src, input.Query, limit)
	return nil, QueryOutput{
		SourceID: src.ID,
		Matches:  matches,
		Count:    len(matches),
	}, nil
}

// handleRead handles the read_document tool invocation.
func (s *Server) handleRead(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadInput,
) (*mcp.CallToolResult, ReadOutput, error) {
	if input.Reference == "" {
		return nil, ReadOutput{}, docmirror.Errorf(docmirror.EINVALID, "reference is required")
	}

	var (
		src *docmirror.Source
		err error
	)
	if input.Source != "" {
		src, err = s.ports.State.Source(docmirror.NormalizeSourceID(input.Source))
	} else {
		src, err = s.ports.State.Active()
	}
	if err != nil {
		return nil, ReadOutput{}, err
	}

	desc := src.Descriptor(input.Reference)
	if desc == nil {
		return nil, ReadOutput{}, docmirror.Errorf(docmirror.ENOTFOUND, "document %q is not indexed in source %q", input.Reference, src.ID)
	}
	if desc.ContentHash == "" {
		return nil, ReadOutput{}, docmirror.Errorf(docmirror.ENOTFOUND, "document %q has no stored content", input.Reference)
	}

	content, err := s.ports.Contents.Get(ctx, desc.ContentHash)
	if err != nil {
		return nil, ReadOutput{}, err
	}

	return nil, ReadOutput{
		Reference: desc.Reference,
		Title:     desc.Title,
		Summary:   desc.Summary,
		Topics:    desc.Topics,
		Content:   string(content),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, docmirror.Errorf(docmirror.EINVALID, "question is required")
	}

	answer, matches, err := s.ports.Asker.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer, Sources: matches}, nil
}
