package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/docmirror"
)

var _ docmirror.StateService = (*StateService)(nil)

// StateService is a mock implementation of docmirror.StateService.
// When SaveEntryFn is nil it keeps entries in an in-memory registry
// and counts persisted saves.
type StateService struct {
	LoadFn        func(ctx context.Context) error
	SaveEntryFn   func(ctx context.Context, src *docmirror.Source) error
	RemoveEntryFn func(ctx context.Context, sourceID string) error
	SetActiveFn   func(ctx context.Context, sourceID string) error

	mu       sync.Mutex
	registry *docmirror.Registry
	saves    int
}

func (s *StateService) reg() *docmirror.Registry {
	if s.registry == nil {
		s.registry = docmirror.NewRegistry()
	}
	return s.registry
}

func (s *StateService) Load(ctx context.Context) error {
	if s.LoadFn != nil {
		return s.LoadFn(ctx)
	}
	return nil
}

func (s *StateService) Source(sourceID string) (*docmirror.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.reg().Get(sourceID)
	if src == nil {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "source %q not found", sourceID)
	}
	return src, nil
}

func (s *StateService) Active() (*docmirror.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.reg().Active()
	if src == nil {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "no active source set")
	}
	return src, nil
}

func (s *StateService) List() []*docmirror.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg := s.reg()
	sources := make([]*docmirror.Source, 0, len(reg.Sources))
	for _, id := range reg.IDs() {
		sources = append(sources, reg.Sources[id])
	}
	return sources
}

func (s *StateService) SaveEntry(ctx context.Context, src *docmirror.Source) error {
	if s.SaveEntryFn != nil {
		return s.SaveEntryFn(ctx, src)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg().Put(src)
	s.saves++
	return nil
}

func (s *StateService) RemoveEntry(ctx context.Context, sourceID string) error {
	if s.RemoveEntryFn != nil {
		return s.RemoveEntryFn(ctx, sourceID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reg().Remove(sourceID); err != nil {
		return err
	}
	s.saves++
	return nil
}

func (s *StateService) SetActive(ctx context.Context, sourceID string) error {
	if s.SetActiveFn != nil {
		return s.SetActiveFn(ctx, sourceID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reg().SetActive(sourceID); err != nil {
		return err
	}
	s.saves++
	return nil
}

// Saves returns the number of persisted mutations recorded by the
// in-memory registry.
func (s *StateService) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Seed stores a source directly without counting a save.
func (s *StateService) Seed(src *docmirror.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg().Put(src)
}

// SeedActive stores a source and marks it active without counting saves.
func (s *StateService) SeedActive(src *docmirror.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg().Put(src)
	s.reg().ActiveSourceID = src.ID
}
