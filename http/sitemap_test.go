package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docmirror"
	docmirrorhttp "github.com/fwojciec/docmirror/http"
	"github.com/fwojciec/docmirror/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverer_Discover_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/sitemap.xml
`
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":  robotsTxt,
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	entries, err := d.Discover(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, srv.URL+"/docs/intro", entries[0].Reference)
	assert.Equal(t, srv.URL+"/docs/guide", entries[1].Reference)
}

func TestDiscoverer_Discover_FallbackToSitemapXML(t *testing.T) {
	t.Parallel()

	// No robots.txt, should fall back to /sitemap.xml
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	entries, err := d.Discover(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/page1", entries[0].Reference)
}

func TestDiscoverer_Discover_SitemapIndex(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
</sitemapindex>`

	sitemapDocs := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
</urlset>`

	sitemapAPI := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/api/reference</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-docs.xml": sitemapDocs,
		"/sitemap-api.xml":  sitemapAPI,
	})
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	entries, err := d.Discover(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, srv.URL+"/docs/intro", entries[0].Reference)
	assert.Equal(t, srv.URL+"/api/reference", entries[1].Reference)
}

func TestDiscoverer_Discover_PathPrefixScoping(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/blog/post1</loc></url>
  <url><loc>{{BASE}}/documentation/other</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	entries, err := d.Discover(context.Background(), srv.URL+"/docs")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/docs/intro", entries[0].Reference)
}

func TestDiscoverer_Discover_LinkFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>links</body></html>"))
	}))
	defer srv.Close()

	links := &mock.LinkExtractor{
		ExtractLinksFn: func(_ []byte, pageURL string) ([]docmirror.Link, error) {
			base := strings.TrimSuffix(pageURL, "/")
			return []docmirror.Link{
				{URL: base + "/intro", Text: "Intro"},
				{URL: base + "/intro", Text: "Intro again"},
				{URL: "https://elsewhere.example.com/doc", Text: "Offsite"},
			}, nil
		},
	}

	d := docmirrorhttp.NewDiscoverer(srv.Client(), links)
	entries, err := d.Discover(context.Background(), srv.URL+"/docs/")

	require.NoError(t, err)
	require.Len(t, entries, 1, "duplicates and offsite links are dropped")
	assert.Equal(t, srv.URL+"/docs/intro", entries[0].Reference)
	assert.Equal(t, "Intro", entries[0].Title)
}

func TestDiscoverer_Discover_CapsLargeSitemaps(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for i := 0; i < docmirrorhttp.MaxDiscoveredEntries+50; i++ {
		fmt.Fprintf(&b, "<url><loc>{{BASE}}/docs/page-%d</loc></url>", i)
	}
	b.WriteString(`</urlset>`)

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": b.String(),
	})
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	entries, err := d.Discover(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, entries, docmirrorhttp.MaxDiscoveredEntries)
	assert.Equal(t, srv.URL+"/docs/page-0", entries[0].Reference)
}

func TestDiscoverer_Discover_NothingFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := docmirrorhttp.NewDiscoverer(srv.Client(), nil)
	_, err := d.Discover(context.Background(), srv.URL)

	assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
}

func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Replace {{BASE}} with actual server URL
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		// Set content type based on path
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}
