// Package goquery provides CSS-selector based link extraction from
// HTML pages.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docmirror"
)

// Ensure LinkExtractor implements docmirror.LinkExtractor at compile time.
var _ docmirror.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor pulls hyperlinks out of an HTML page. Structural
// regions are scanned in order of usefulness for documentation
// discovery: navigation first, then sidebars, main content and
// finally the rest of the page.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns links resolved against the
// page URL. Fragment-only, mailto and javascript links are skipped,
// and each URL appears at most once with its first-seen text.
func (e *LinkExtractor) ExtractLinks(html []byte, pageURL string) ([]docmirror.Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []docmirror.Link
	seen := make(map[string]bool)

	collect := func(selector string) {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" {
				return
			}
			if strings.HasPrefix(href, "#") ||
				strings.HasPrefix(href, "mailto:") ||
				strings.HasPrefix(href, "javascript:") {
				return
			}

			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			resolved := base.ResolveReference(ref)
			resolved.Fragment = ""

			u := resolved.String()
			if seen[u] {
				return
			}
			seen[u] = true

			links = append(links, docmirror.Link{
				URL:  u,
				Text: strings.TrimSpace(sel.Text()),
			})
		})
	}

	collect("nav a[href]")
	collect("aside a[href]")
	collect("main a[href], article a[href]")
	collect("body a[href]")

	return links, nil
}
