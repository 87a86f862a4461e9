package docmirror

import "context"

// StateService manages the persisted registry of indexed sources.
// Implementations serialize access internally; every mutation persists
// the full registry atomically before returning.
type StateService interface {
	// Load reads the persisted registry into memory. A missing state
	// file yields an empty registry. A corrupt state file is set aside
	// and replaced by an empty registry rather than treated as fatal.
	Load(ctx context.Context) error

	// Source returns the entry for a source ID.
	// Returns ENOTFOUND if the source is not indexed.
	Source(sourceID string) (*Source, error)

	// Active returns the source queries resolve against.
	// Returns ENOTFOUND if no active source is set.
	Active() (*Source, error)

	// List returns all indexed sources ordered by ID.
	List() []*Source

	// SaveEntry stores a source entry, replacing any previous entry
	// with the same ID, and persists the registry.
	SaveEntry(ctx context.Context, src *Source) error

	// RemoveEntry deletes a source entry and persists the registry.
	// Removing the active source clears the active pointer.
	// Returns ENOTFOUND if the source is not indexed.
	RemoveEntry(ctx context.Context, sourceID string) error

	// SetActive marks a source as active and persists the registry.
	// Returns ENOTFOUND if the source is not indexed.
	SetActive(ctx context.Context, sourceID string) error
}
