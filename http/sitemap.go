package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docmirror"
)

// Ensure Discoverer implements docmirror.Discoverer.
var _ docmirror.Discoverer = (*Discoverer)(nil)

// MaxDiscoveredEntries caps how many documents a single discovery pass
// may return. Large sitemaps are truncated in document order.
const MaxDiscoveredEntries = 500

// Discoverer finds document references for sites without a manifest.
// It tries the site's sitemaps first (via robots.txt, then
// /sitemap.xml) and falls back to extracting links from the base page
// when no sitemap exists.
type Discoverer struct {
	client *http.Client
	links  docmirror.LinkExtractor
}

// NewDiscoverer creates a Discoverer. If client is nil,
// http.DefaultClient is used. The link extractor is optional; without
// one there is no fallback when sitemap discovery finds nothing.
func NewDiscoverer(client *http.Client, links docmirror.LinkExtractor) *Discoverer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Discoverer{client: client, links: links}
}

// Discover finds document entries under baseURL.
//
// When baseURL has a non-root path (e.g., https://example.com/docs/),
// only URLs with paths under that prefix are returned.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) ([]docmirror.ManifestEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "invalid base URL %q: %s", baseURL, err)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	// Sitemap discovery starts at the domain root regardless of path.
	sitemapBase := *base
	sitemapBase.Path = ""

	sitemapURLs, err := d.findSitemapURLs(ctx, &sitemapBase)
	if err != nil {
		return nil, err
	}

	var refs []string
	seenRefs := make(map[string]bool)
	seenSitemaps := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		urls, err := d.processSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if !seenRefs[u] {
				seenRefs[u] = true
				refs = append(refs, u)
			}
		}
	}

	entries := make([]docmirror.ManifestEntry, 0, len(refs))
	for _, ref := range refs {
		if !inScope(ref, base.Host, pathPrefix) {
			continue
		}
		entries = append(entries, docmirror.ManifestEntry{Reference: ref})
	}

	if len(entries) == 0 && d.links != nil {
		entries, err = d.discoverFromLinks(ctx, base, pathPrefix)
		if err != nil {
			return nil, err
		}
	}

	if len(entries) == 0 {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "no documents discovered under %q", baseURL)
	}
	if len(entries) > MaxDiscoveredEntries {
		entries = entries[:MaxDiscoveredEntries]
	}
	return entries, nil
}

// discoverFromLinks fetches the base page and uses its in-scope links
// as document entries. Link text becomes the entry title.
func (d *Discoverer) discoverFromLinks(ctx context.Context, base *url.URL, pathPrefix string) ([]docmirror.ManifestEntry, error) {
	body, err := d.fetchURL(ctx, base.String())
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "fetch %s: %s", base, err)
	}
	defer body.Close()

	html, err := io.ReadAll(body)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "read %s: %s", base, err)
	}

	links, err := d.links.ExtractLinks(html, base.String())
	if err != nil {
		return nil, err
	}

	var entries []docmirror.ManifestEntry
	seen := make(map[string]bool)
	for _, link := range links {
		if seen[link.URL] || !inScope(link.URL, base.Host, pathPrefix) {
			continue
		}
		seen[link.URL] = true
		entries = append(entries, docmirror.ManifestEntry{
			Reference: link.URL,
			Title:     link.Text,
		})
	}
	return entries, nil
}

// inScope checks that a URL belongs to the host and sits under the
// path prefix, respecting path boundaries.
func inScope(rawURL, host, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Host != host {
		return false
	}
	if prefix == "" {
		return true
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path+"/" == prefix
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (d *Discoverer) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	// Try robots.txt first
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := d.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	// Fall back to /sitemap.xml
	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := d.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}

	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (d *Discoverer) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := d.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Case-insensitive check for Sitemap: directive
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[8:]) // len("sitemap:") == 8
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (d *Discoverer) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := d.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	// Check if this is a sitemap index
	if root.Tag == "sitemapindex" {
		return d.processSitemapIndex(ctx, root, seen)
	}

	// Otherwise treat as urlset
	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (d *Discoverer) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var allURLs []string

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := d.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fetchURL fetches a URL and returns the response body.
func (d *Discoverer) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (d *Discoverer) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
