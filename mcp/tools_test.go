package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/index"
	"github.com/fwojciec/docmirror/mock"
)

func testSource(id string) *docmirror.Source {
	return &docmirror.Source{
		ID:           id,
		Name:         "Example Docs",
		ManifestURL:  id,
		ManifestHash: docmirror.HashContent([]byte(id)),
		Descriptors: []*docmirror.Descriptor{
			{
				Reference:     "https://example.com/docs/routing",
				Title:         "Routing",
				Summary:       "How requests are routed to handlers.",
				Topics:        []string{"routing", "handlers"},
				FetchStatus:   docmirror.FetchFresh,
				LastIndexedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				Reference:     "https://example.com/docs/middleware",
				Title:         "Middleware",
				Summary:       "Composing middleware chains.",
				Topics:        []string{"middleware"},
				FetchStatus:   docmirror.FetchFresh,
				LastIndexedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		IndexedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Indexer == nil {
		ports.Indexer = &mockIndexService{}
	}
	if ports.State == nil {
		ports.State = &mock.StateService{}
	}
	if ports.Contents == nil {
		ports.Contents = &mock.ContentStore{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestNewServer_Validation(t *testing.T) {
	t.Parallel()

	t.Run("requires index service", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(&Ports{State: &mock.StateService{}, Contents: &mock.ContentStore{}})
		require.ErrorIs(t, err, ErrMissingIndexer)
	})

	t.Run("requires state service", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(&Ports{Indexer: &mockIndexService{}, Contents: &mock.ContentStore{}})
		require.ErrorIs(t, err, ErrMissingState)
	})

	t.Run("requires content store", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(&Ports{Indexer: &mockIndexService{}, State: &mock.StateService{}})
		require.ErrorIs(t, err, ErrMissingContents)
	})
}

func TestServer_handleIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("indexes a manifest and activates the first source", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		src := testSource("https://example.com/llms.txt")
		indexer := &mockIndexService{
			IndexSourceFn: func(ctx context.Context, manifestURL string, force bool) (*index.Result, error) {
				state.Seed(src)
				return &index.Result{
					SourceID:      src.ID,
					Name:          src.Name,
					DocumentCount: 2,
					Succeeded:     2,
				}, nil
			},
		}
		server := newTestServer(t, &Ports{Indexer: indexer, State: state})

		_, output, err := server.handleIndex(ctx, nil, IndexInput{URL: src.ID})

		require.NoError(t, err)
		assert.Equal(t, src.ID, output.SourceID)
		assert.Equal(t, 2, output.Succeeded)
		active, err := state.Active()
		require.NoError(t, err)
		assert.Equal(t, src.ID, active.ID)
	})

	t.Run("keeps the existing active source", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		state.SeedActive(testSource("https://other.com/llms.txt"))
		src := testSource("https://example.com/llms.txt")
		indexer := &mockIndexService{
			IndexSourceFn: func(ctx context.Context, manifestURL string, force bool) (*index.Result, error) {
				state.Seed(src)
				return &index.Result{SourceID: src.ID, Name: src.Name}, nil
			},
		}
		server := newTestServer(t, &Ports{Indexer: indexer, State: state})

		_, _, err := server.handleIndex(ctx, nil, IndexInput{URL: src.ID})

		require.NoError(t, err)
		active, err := state.Active()
		require.NoError(t, err)
		assert.Equal(t, "https://other.com/llms.txt", active.ID)
	})

	t.Run("site flag uses discovery", func(t *testing.T) {
		t.Parallel()

		siteCalled := false
		indexer := &mockIndexService{
			IndexSiteFn: func(ctx context.Context, baseURL string, force bool) (*index.Result, error) {
				siteCalled = true
				return &index.Result{SourceID: docmirror.NormalizeSourceID(baseURL)}, nil
			},
		}
		state := &mock.StateService{}
		state.SeedActive(testSource("https://other.com/llms.txt"))
		server := newTestServer(t, &Ports{Indexer: indexer, State: state})

		_, _, err := server.handleIndex(ctx, nil, IndexInput{URL: "https://example.com/docs", Site: true})

		require.NoError(t, err)
		assert.True(t, siteCalled)
	})

	t.Run("rejects empty url", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, &Ports{})
		_, _, err := server.handleIndex(ctx, nil, IndexInput{})

		require.Error(t, err)
		assert.Equal(t, docmirror.EINVALID, docmirror.ErrorCode(err))
	})
}

func TestServer_handleList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	state := &mock.StateService{}
	state.Seed(testSource("https://a.com/llms.txt"))
	state.SeedActive(testSource("https://b.com/llms.txt"))
	server := newTestServer(t, &Ports{State: state})

	_, output, err := server.handleList(ctx, nil, ListInput{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "https://a.com/llms.txt", output.Sources[0].ID)
	assert.False(t, output.Sources[0].Active)
	assert.True(t, output.Sources[1].Active)
	assert.Equal(t, 2, output.Sources[0].DocumentCount)
}

func TestServer_handleUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("activates a source by URL", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		state.Seed(testSource("https://example.com/llms.txt"))
		server := newTestServer(t, &Ports{State: state})

		_, output, err := server.handleUse(ctx, nil, UseInput{Source: "https://EXAMPLE.com/llms.txt"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/llms.txt", output.SourceID)
		assert.Equal(t, "Example Docs", output.Name)
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, &Ports{})
		_, _, err := server.handleUse(ctx, nil, UseInput{Source: "https://missing.com/llms.txt"})

		require.Error(t, err)
		assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
	})
}

func TestServer_handleQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("matches against the active source", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		state.SeedActive(testSource("https://example.com/llms.txt"))
		server := newTestServer(t, &Ports{State: state})

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "middleware"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "https://example.com/docs/middleware", output.Matches[0].Reference)
	})

	t.Run("no active source", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, &Ports{})
		_, _, err := server.handleQuery(ctx, nil, QueryInput{Query: "middleware"})

		require.Error(t, err)
		assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
	})
}

func TestServer_handleRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns stored content", func(t *testing.T) {
		t.Parallel()

		contents := &mock.ContentStore{}
		hash, err := contents.Put(ctx, []byte("# Routing\n\nDetails."))
		require.NoError(t, err)

		src := testSource("https://example.com/llms.txt")
		src.Descriptors[0].ContentHash = hash
		state := &mock.StateService{}
		state.SeedActive(src)
		server := newTestServer(t, &Ports{State: state, Contents: contents})

		_, output, err := server.handleRead(ctx, nil, ReadInput{Reference: "https://example.com/docs/routing"})

		require.NoError(t, err)
		assert.Equal(t, "Routing", output.Title)
		assert.Equal(t, "# Routing\n\nDetails.", output.Content)
		assert.Equal(t, []string{"routing", "handlers"}, output.Topics)
	})

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		state.SeedActive(testSource("https://example.com/llms.txt"))
		server := newTestServer(t, &Ports{State: state})

		_, _, err := server.handleRead(ctx, nil, ReadInput{Reference: "https://example.com/docs/missing"})

		require.Error(t, err)
		assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
	})

	t.Run("document without stored content", func(t *testing.T) {
		t.Parallel()

		state := &mock.StateService{}
		state.SeedActive(testSource("https://example.com/llms.txt"))
		server := newTestServer(t, &Ports{State: state})

		_, _, err := server.handleRead(ctx, nil, ReadInput{Reference: "https://example.com/docs/routing"})

		require.Error(t, err)
		assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
	})
}

func TestServer_handleAsk(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	asker := &mockAskService{
		AskFn: func(ctx context.Context, question string) (string, []docmirror.Match, error) {
			return "Use the middleware chain.", []docmirror.Match{
				{Reference: "https://example.com/docs/middleware", Title: "Middleware", Score: 3},
			}, nil
		},
	}
	server := newTestServer(t, &Ports{Asker: asker})

	_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "how do I add middleware?"})

	require.NoError(t, err)
	assert.Equal(t, "Use the middleware chain.", output.Answer)
	assert.Len(t, output.Sources, 1)
}
