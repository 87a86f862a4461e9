package docmirror

import "context"

// Fetcher retrieves the content of a document reference. URL-backed
// implementations return the extracted markdown body; other
// implementations may map references onto files or fixtures.
type Fetcher interface {
	// Fetch retrieves the content behind a reference. Returns
	// EUNAVAILABLE when the backend cannot be reached and EINVALID for
	// references the fetcher cannot handle.
	Fetch(ctx context.Context, reference string) ([]byte, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// DomainLimiter throttles outbound requests on a per-domain basis so
// an index pass stays polite toward each host it touches.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is permitted, or the
	// context is done.
	Wait(ctx context.Context, domain string) error
}
