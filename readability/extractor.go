package readability

import (
	"strings"

	"github.com/fwojciec/docmirror"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docmirror.Extractor at compile time.
var _ docmirror.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docmirror.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docmirror.Errorf(docmirror.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docmirror.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
