package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/bloom"
)

// Compile-time interface verification.
var _ docmirror.ContentStore = (*ContentStore)(nil)

// ContentStore implements docmirror.ContentStore using SQLite.
// Blobs are keyed by content hash, so storing the same content twice
// is a no-op. A Bloom filter over stored hashes lets repeated Puts of
// known content skip the write path entirely.
type ContentStore struct {
	db *DB

	mu   sync.Mutex
	seen *bloom.Filter
}

// NewContentStore creates a ContentStore backed by db and primes the
// Bloom filter from the hashes already stored.
func NewContentStore(ctx context.Context, db *DB) (*ContentStore, error) {
	s := &ContentStore{
		db:   db,
		seen: bloom.NewFilter(100000, 0.01),
	}

	rows, err := db.QueryContext(ctx, "SELECT hash FROM blobs")
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "failed to load stored hashes: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, docmirror.Errorf(docmirror.EINTERNAL, "failed to scan stored hash: %s", err)
		}
		s.seen.Add(hash)
	}
	if err := rows.Err(); err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "failed to load stored hashes: %s", err)
	}

	return s, nil
}

// Put stores content under its hash and returns the hash. Storing
// content that is already present leaves the existing blob untouched.
func (s *ContentStore) Put(ctx context.Context, content []byte) (docmirror.ContentHash, error) {
	hash := docmirror.HashContent(content)

	s.mu.Lock()
	maybeStored := s.seen.Test(string(hash))
	s.mu.Unlock()

	if maybeStored {
		// The filter can report false positives, so confirm before
		// skipping the write.
		ok, err := s.Has(ctx, hash)
		if err != nil {
			return "", err
		}
		if ok {
			return hash, nil
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (hash, content, size, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (hash) DO NOTHING
	`, string(hash), content, len(content), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", docmirror.Errorf(docmirror.EINTERNAL, "failed to store content: %s", err)
	}

	s.mu.Lock()
	s.seen.Add(string(hash))
	s.mu.Unlock()

	return hash, nil
}

// Get retrieves content by hash.
func (s *ContentStore) Get(ctx context.Context, hash docmirror.ContentHash) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM blobs WHERE hash = ?
	`, string(hash)).Scan(&content)

	if err == sql.ErrNoRows {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "content %q not found", hash)
	}
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "failed to read content: %s", err)
	}

	return content, nil
}

// Has reports whether content with the given hash is stored.
func (s *ContentStore) Has(ctx context.Context, hash docmirror.ContentHash) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM blobs WHERE hash = ?
	`, string(hash)).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, docmirror.Errorf(docmirror.EINTERNAL, "failed to check content: %s", err)
	}

	return true, nil
}

// Count returns the number of stored blobs.
func (s *ContentStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blobs").Scan(&n); err != nil {
		return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to count blobs: %s", err)
	}
	return n, nil
}
