package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of docmirror.ContentStore.
// When the function fields are nil it behaves as an in-memory store,
// which is what most tests want.
type ContentStore struct {
	PutFn func(ctx context.Context, content []byte) (docmirror.ContentHash, error)
	GetFn func(ctx context.Context, hash docmirror.ContentHash) ([]byte, error)
	HasFn func(ctx context.Context, hash docmirror.ContentHash) (bool, error)

	mu    sync.Mutex
	blobs map[docmirror.ContentHash][]byte
}

func (s *ContentStore) Put(ctx context.Context, content []byte) (docmirror.ContentHash, error) {
	if s.PutFn != nil {
		return s.PutFn(ctx, content)
	}
	hash := docmirror.HashContent(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs == nil {
		s.blobs = make(map[docmirror.ContentHash][]byte)
	}
	if _, ok := s.blobs[hash]; !ok {
		s.blobs[hash] = append([]byte(nil), content...)
	}
	return hash, nil
}

func (s *ContentStore) Get(ctx context.Context, hash docmirror.ContentHash) ([]byte, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, hash)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[hash]
	if !ok {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "content %q not found", hash)
	}
	return content, nil
}

func (s *ContentStore) Has(ctx context.Context, hash docmirror.ContentHash) (bool, error) {
	if s.HasFn != nil {
		return s.HasFn(ctx, hash)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[hash]
	return ok, nil
}

// Len returns the number of stored blobs in the in-memory store.
func (s *ContentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
