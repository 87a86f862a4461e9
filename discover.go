package docmirror

import "context"

// Discoverer finds document references for a site that publishes no
// manifest, typically via its sitemap or by crawling page links.
type Discoverer interface {
	// Discover returns manifest entries for documents under the base
	// URL, in a stable order. Returns EUNAVAILABLE when the site cannot
	// be reached and ENOTFOUND when no documents can be located.
	Discover(ctx context.Context, baseURL string) ([]ManifestEntry, error)
}

// Link is one hyperlink extracted from an HTML page.
type Link struct {
	URL  string
	Text string
}

// LinkExtractor pulls hyperlinks out of an HTML page, resolving them
// against the page URL.
type LinkExtractor interface {
	ExtractLinks(html []byte, pageURL string) ([]Link, error)
}
