// Package http provides HTTP-based implementations of docmirror.Fetcher
// and docmirror.Discoverer for static documentation sites.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docmirror"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements docmirror.Fetcher at compile time.
var _ docmirror.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves document content over HTTP. HTML responses are run
// through the extract/convert pipeline so callers always receive
// markdown; markdown and plain text responses pass through untouched.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	extractor docmirror.Extractor
	converter docmirror.Converter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithPipeline sets the HTML extract/convert pipeline. Without one,
// HTML responses are returned as raw HTML.
func WithPipeline(extractor docmirror.Extractor, converter docmirror.Converter) Option {
	return func(f *Fetcher) {
		f.extractor = extractor
		f.converter = converter
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the content behind a reference.
func (f *Fetcher) Fetch(ctx context.Context, reference string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, nil)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "invalid reference %q: %s", reference, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "fetch %s: %s", reference, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "HTTP 404 for %s", reference)
	default:
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, reference)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "read %s: %s", reference, err)
	}

	if f.extractor != nil && f.converter != nil && isHTML(resp.Header.Get("Content-Type"), body) {
		return f.toMarkdown(body)
	}

	return body, nil
}

// toMarkdown runs an HTML body through extraction and conversion.
func (f *Fetcher) toMarkdown(body []byte) ([]byte, error) {
	extracted, err := f.extractor.Extract(string(body))
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "extract content: %s", docmirror.ErrorMessage(err))
	}
	markdown, err := f.converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "convert content: %s", docmirror.ErrorMessage(err))
	}
	return []byte(markdown), nil
}

// isHTML reports whether a response should go through the HTML
// pipeline, based on the Content-Type header with a sniff fallback.
func isHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return true
	}
	if contentType != "" && !strings.Contains(contentType, "text/plain") {
		return false
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
