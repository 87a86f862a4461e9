package mock

import "github.com/fwojciec/docmirror"

var _ docmirror.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docmirror.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html []byte, pageURL string) ([]docmirror.Link, error)
}

func (e *LinkExtractor) ExtractLinks(html []byte, pageURL string) ([]docmirror.Link, error) {
	return e.ExtractLinksFn(html, pageURL)
}
