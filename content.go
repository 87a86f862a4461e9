package docmirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash is the hex-encoded SHA-256 digest of a document's raw
// bytes. It is the document's identity key in the content store and
// the signal for "has this document changed".
type ContentHash string

// HashContent computes the ContentHash of raw document bytes.
// Identical content always yields the identical hash.
func HashContent(content []byte) ContentHash {
	sum := sha256.Sum256(content)
	return ContentHash(hex.EncodeToString(sum[:]))
}

// ContentStore is a content-addressable store mapping a ContentHash to
// immutable bytes. Entries are never mutated once written; deletion is
// only via an explicit garbage-collection sweep, which may be deferred
// indefinitely.
type ContentStore interface {
	// Put stores content under its hash if absent and returns the hash.
	// Calling Put with content that is already stored is a no-op that
	// returns the same hash. Safe for concurrent use with overlapping
	// content.
	Put(ctx context.Context, content []byte) (ContentHash, error)

	// Get retrieves content by hash.
	// Returns ENOTFOUND if no content is stored under the hash.
	Get(ctx context.Context, hash ContentHash) ([]byte, error)

	// Has reports whether content is stored under the hash.
	Has(ctx context.Context, hash ContentHash) (bool, error)
}
