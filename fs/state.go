// Package fs provides file-based persistence for the docmirror registry
// and markdown export of mirrored documentation.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/docmirror"
)

// Ensure StateService implements docmirror.StateService at compile time.
var _ docmirror.StateService = (*StateService)(nil)

// StateService persists the source registry as a single JSON file.
// Every mutation rewrites the full file: the new state is written to a
// temporary file and renamed into place, so readers never observe a
// partial write.
type StateService struct {
	path string

	mu       sync.RWMutex
	registry *docmirror.Registry
}

// NewStateService creates a StateService storing its registry at path.
func NewStateService(path string) *StateService {
	return &StateService{
		path:     path,
		registry: docmirror.NewRegistry(),
	}
}

// Load reads the registry from disk. A missing file yields an empty
// registry. A file that cannot be parsed is renamed aside with a
// .corrupt suffix and replaced by an empty registry.
func (s *StateService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.registry = docmirror.NewRegistry()
		return nil
	}
	if err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to read state file: %s", err)
	}

	var reg docmirror.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		if renameErr := s.setAsideCorrupt(); renameErr != nil {
			return renameErr
		}
		s.registry = docmirror.NewRegistry()
		return nil
	}

	if reg.Sources == nil {
		reg.Sources = make(map[string]*docmirror.Source)
	}
	// The active pointer must reference an existing source.
	if reg.ActiveSourceID != "" {
		if _, ok := reg.Sources[reg.ActiveSourceID]; !ok {
			reg.ActiveSourceID = ""
		}
	}

	s.registry = &reg
	return nil
}

// setAsideCorrupt renames an unparseable state file so its contents
// survive for inspection.
func (s *StateService) setAsideCorrupt() error {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UTC().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to set aside corrupt state file: %s", err)
	}
	return nil
}

// Source returns the entry for a source ID.
func (s *StateService) Source(sourceID string) (*docmirror.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.registry.Get(sourceID)
	if src == nil {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "source %q not found", sourceID)
	}
	return src, nil
}

// Active returns the source queries resolve against.
func (s *StateService) Active() (*docmirror.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.registry.Active()
	if src == nil {
		return nil, docmirror.Errorf(docmirror.ENOTFOUND, "no active source set")
	}
	return src, nil
}

// List returns all indexed sources ordered by ID.
func (s *StateService) List() []*docmirror.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]*docmirror.Source, 0, len(s.registry.Sources))
	for _, id := range s.registry.IDs() {
		sources = append(sources, s.registry.Sources[id])
	}
	return sources
}

// ActiveSourceID returns the active source ID, or "" if none is set.
func (s *StateService) ActiveSourceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry.ActiveSourceID
}

// SaveEntry stores a source entry and persists the registry.
func (s *StateService) SaveEntry(ctx context.Context, src *docmirror.Source) error {
	if err := src.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev := s.registry.Sources[src.ID]
	s.registry.Put(src)
	if err := s.persist(); err != nil {
		// Keep memory consistent with disk on failure.
		if hadPrev {
			s.registry.Sources[src.ID] = prev
		} else {
			delete(s.registry.Sources, src.ID)
		}
		return err
	}
	return nil
}

// RemoveEntry deletes a source entry and persists the registry.
func (s *StateService) RemoveEntry(ctx context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.registry.Get(sourceID)
	prevActive := s.registry.ActiveSourceID
	if err := s.registry.Remove(sourceID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.registry.Put(prev)
		s.registry.ActiveSourceID = prevActive
		return err
	}
	return nil
}

// SetActive marks a source as active and persists the registry.
func (s *StateService) SetActive(ctx context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevActive := s.registry.ActiveSourceID
	if err := s.registry.SetActive(sourceID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.registry.ActiveSourceID = prevActive
		return err
	}
	return nil
}

// persist writes the full registry to a temporary file and renames it
// over the state file. Callers must hold the write lock.
func (s *StateService) persist() error {
	data, err := json.MarshalIndent(s.registry, "", "  ")
	if err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to encode state: %s", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to create state directory: %s", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to write state file: %s", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return docmirror.Errorf(docmirror.EINTERNAL, "failed to replace state file: %s", err)
	}
	return nil
}
