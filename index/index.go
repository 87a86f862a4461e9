// Package index provides indexing orchestration. It coordinates
// manifest parsing, document fetching, content-addressed storage,
// summarization and registry persistence.
package index

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docmirror"
	"golang.org/x/sync/errgroup"
)

// Indexer orchestrates index passes over documentation sources.
// Passes for the same source are serialized; passes for different
// sources may run concurrently.
type Indexer struct {
	Fetcher    docmirror.Fetcher
	Summarizer docmirror.Summarizer
	Contents   docmirror.ContentStore
	State      docmirror.StateService
	Limiter    docmirror.DomainLimiter
	Discoverer docmirror.Discoverer

	// Concurrency bounds the number of documents fetched in parallel.
	Concurrency int

	// RetryDelays overrides the fetch retry backoff. Nil means the
	// default 1s, 2s, 4s schedule.
	RetryDelays []time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Result holds the outcome of an index pass.
type Result struct {
	SourceID      string
	Name          string
	DocumentCount int
	Succeeded     int

	// FailedReferences lists documents whose fetch did not succeed.
	FailedReferences []string

	// SummarizeFailures lists documents whose content was stored but
	// could not be summarized.
	SummarizeFailures []string

	// FromCache is true when the manifest was unchanged and the
	// previous entry's document list was reused.
	FromCache bool
}

// entryResult holds the outcome of processing a single document.
type entryResult struct {
	position        int
	descriptor      *docmirror.Descriptor
	fetchFailed     bool
	summarizeFailed bool
}

// IndexSource fetches a manifest and indexes every document it lists.
// With force set, documents are re-summarized even when their content
// is unchanged. A manifest that cannot be fetched leaves all state
// untouched.
func (ix *Indexer) IndexSource(ctx context.Context, manifestURL string, force bool) (*Result, error) {
	sourceID := docmirror.NormalizeSourceID(manifestURL)

	lock := ix.sourceLock(sourceID)
	lock.Lock()
	defer lock.Unlock()

	text, err := ix.fetchWithRetry(ctx, manifestURL)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "failed to fetch manifest %q: %s", manifestURL, docmirror.ErrorMessage(err))
	}

	return ix.indexManifest(ctx, sourceID, manifestURL, string(text), force)
}

// IndexSite discovers documents for a site that publishes no manifest
// and indexes them. The discovered entries are rendered as a synthetic
// manifest so change detection works the same way as for real ones.
func (ix *Indexer) IndexSite(ctx context.Context, baseURL string, force bool) (*Result, error) {
	if ix.Discoverer == nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "site discovery is not configured")
	}

	sourceID := docmirror.NormalizeSourceID(baseURL)

	lock := ix.sourceLock(sourceID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := ix.Discoverer.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	text := SyntheticManifest(baseURL, entries)
	return ix.indexManifest(ctx, sourceID, baseURL, text, force)
}

// indexManifest runs an index pass over a manifest text. Callers must
// hold the source lock.
func (ix *Indexer) indexManifest(ctx context.Context, sourceID, manifestURL, text string, force bool) (*Result, error) {
	manifestHash := docmirror.HashContent([]byte(text))

	var prev *docmirror.Source
	if src, err := ix.State.Source(sourceID); err == nil {
		prev = src
	} else if docmirror.ErrorCode(err) != docmirror.ENOTFOUND {
		return nil, err
	}

	fromCache := prev != nil && !force && prev.ManifestHash == manifestHash

	var entries []docmirror.ManifestEntry
	var name string
	if fromCache {
		// Unchanged manifest: reuse the previous document list instead
		// of re-parsing.
		name = prev.Name
		entries = make([]docmirror.ManifestEntry, len(prev.Descriptors))
		for i, d := range prev.Descriptors {
			entries[i] = docmirror.ManifestEntry{Reference: d.Reference, Title: d.Title}
		}
	} else {
		parsed, _, err := docmirror.ParseManifest(text, manifestURL)
		if err != nil {
			return nil, err
		}
		entries = parsed
		name = docmirror.ProjectName(text, fallbackName(manifestURL))
	}

	now := ix.now()

	results := ix.processEntries(ctx, entries, prev, force, now)
	if err := ctx.Err(); err != nil {
		// A canceled pass persists nothing.
		return nil, err
	}

	src := &docmirror.Source{
		ID:           sourceID,
		Name:         name,
		ManifestURL:  manifestURL,
		ManifestHash: manifestHash,
		Descriptors:  make([]*docmirror.Descriptor, len(results)),
		IndexedAt:    now,
	}

	result := &Result{
		SourceID:      sourceID,
		Name:          name,
		DocumentCount: len(results),
		FromCache:     fromCache,
	}
	for i, r := range results {
		src.Descriptors[i] = r.descriptor
		if r.fetchFailed {
			result.FailedReferences = append(result.FailedReferences, r.descriptor.Reference)
		} else {
			result.Succeeded++
		}
		if r.summarizeFailed {
			result.SummarizeFailures = append(result.SummarizeFailures, r.descriptor.Reference)
		}
	}

	if err := ix.State.SaveEntry(ctx, src); err != nil {
		return nil, err
	}

	return result, nil
}

// processEntries fetches and summarizes all entries with bounded
// concurrency, returning results in manifest order.
func (ix *Indexer) processEntries(ctx context.Context, entries []docmirror.ManifestEntry, prev *docmirror.Source, force bool, now time.Time) []entryResult {
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	resultCh := make(chan entryResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, entry := range entries {
			i, entry := i, entry
			g.Go(func() error {
				var prevDesc *docmirror.Descriptor
				if prev != nil {
					prevDesc = prev.Descriptor(entry.Reference)
				}
				resultCh <- ix.processEntry(gctx, i, entry, prevDesc, force, now)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]entryResult, len(entries))
	for r := range resultCh {
		results[r.position] = r
	}
	return results
}

// processEntry fetches one document, stores its content and decides
// whether summarization is needed.
func (ix *Indexer) processEntry(ctx context.Context, position int, entry docmirror.ManifestEntry, prev *docmirror.Descriptor, force bool, now time.Time) entryResult {
	result := entryResult{position: position}

	desc := &docmirror.Descriptor{
		Reference:     entry.Reference,
		Title:         entry.Title,
		LastIndexedAt: now,
	}
	result.descriptor = desc

	if ix.Limiter != nil {
		if u, err := url.Parse(entry.Reference); err == nil && u.Host != "" {
			if err := ix.Limiter.Wait(ctx, u.Host); err != nil {
				markFailed(desc, prev)
				result.fetchFailed = true
				return result
			}
		}
	}

	content, err := ix.fetchWithRetry(ctx, entry.Reference)
	if err != nil {
		// A failed fetch keeps the previous content and summary so a
		// transient outage never erases knowledge.
		markFailed(desc, prev)
		result.fetchFailed = true
		return result
	}

	hash, err := ix.Contents.Put(ctx, content)
	if err != nil {
		markFailed(desc, prev)
		result.fetchFailed = true
		return result
	}

	desc.ContentHash = hash
	desc.FetchStatus = docmirror.FetchFresh

	unchanged := prev != nil && prev.ContentHash == hash
	if unchanged && !force && prev.Summary != "" {
		// Same bytes as last time: carry the summary forward without
		// calling the summarizer.
		desc.Summary = prev.Summary
		desc.Topics = prev.Topics
		return result
	}

	summary, err := ix.Summarizer.Summarize(ctx, content)
	if err != nil {
		result.summarizeFailed = true
		return result
	}
	desc.Summary = summary.Text
	desc.Topics = summary.Topics
	return result
}

// markFailed marks a descriptor as failed, preserving the previously
// indexed content when there is any.
func markFailed(desc *docmirror.Descriptor, prev *docmirror.Descriptor) {
	desc.FetchStatus = docmirror.FetchFailed
	if prev != nil {
		desc.ContentHash = prev.ContentHash
		desc.Summary = prev.Summary
		desc.Topics = prev.Topics
		desc.LastIndexedAt = prev.LastIndexedAt
	}
}

func (ix *Indexer) fetchWithRetry(ctx context.Context, reference string) ([]byte, error) {
	delays := ix.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	text, err := FetchWithRetryDelays(ctx, reference, ix.Fetcher.Fetch, nil, delays)
	if err != nil {
		return nil, err
	}
	return text, nil
}

func (ix *Indexer) now() time.Time {
	if ix.Now != nil {
		return ix.Now().UTC()
	}
	return time.Now().UTC()
}

// sourceLock returns the mutex serializing passes for a source.
func (ix *Indexer) sourceLock(sourceID string) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.locks == nil {
		ix.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := ix.locks[sourceID]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[sourceID] = lock
	}
	return lock
}

// SyntheticManifest renders discovered entries as a markdown manifest
// so discovered sites flow through the same change detection as sites
// with a real manifest. Entries are sorted by reference to keep the
// rendering stable across discovery runs.
func SyntheticManifest(baseURL string, entries []docmirror.ManifestEntry) string {
	sorted := make([]docmirror.ManifestEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Reference < sorted[j].Reference
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", fallbackName(baseURL))
	for _, e := range sorted {
		title := e.Title
		if title == "" {
			title = e.Reference
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", title, e.Reference)
	}
	return b.String()
}

// fallbackName derives a display name from a URL host.
func fallbackName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
