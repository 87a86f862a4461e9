package docmirror

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// FetchStatus describes the outcome of the most recent fetch attempt
// for a document.
type FetchStatus string

// Fetch status values for a Descriptor.
const (
	// FetchFresh means the document was fetched successfully during the
	// most recent index pass.
	FetchFresh FetchStatus = "fresh"

	// FetchFailed means the most recent fetch attempt exhausted its
	// retries without success.
	FetchFailed FetchStatus = "failed"
)

// Descriptor is the per-document metadata record tracked inside a
// source's registry entry.
type Descriptor struct {
	// Reference is the document URL (or manifest-relative path),
	// unique within a source's descriptor list.
	Reference string `json:"reference"`

	// Title is the link text from the manifest.
	Title string `json:"title"`

	// ContentHash identifies the cached document body. Empty if the
	// document has never been fetched successfully.
	ContentHash ContentHash `json:"contentHash,omitempty"`

	// Summary and Topics are produced by the Summarizer. Both are empty
	// when summarization failed or has not run for this content.
	Summary string   `json:"summary,omitempty"`
	Topics  []string `json:"topics,omitempty"`

	FetchStatus   FetchStatus `json:"fetchStatus"`
	LastIndexedAt time.Time   `json:"lastIndexedAt"`
}

// Validate returns an error if the descriptor contains invalid fields.
func (d *Descriptor) Validate() error {
	if d.Reference == "" {
		return Errorf(EINVALID, "descriptor reference required")
	}
	return nil
}

// Source represents one indexed manifest and the set of documents it
// currently references. Stored Source values are treated as immutable;
// re-indexing builds a replacement rather than mutating in place.
type Source struct {
	// ID is the normalized manifest URL.
	ID string `json:"id"`

	// Name is the project name extracted from the manifest.
	Name string `json:"name"`

	// ManifestURL is the URL the manifest was fetched from, as given.
	ManifestURL string `json:"manifestUrl"`

	// ManifestHash is the hash of the most recently successfully
	// parsed manifest.
	ManifestHash ContentHash `json:"manifestHash"`

	// Descriptors is ordered by manifest position. The order is
	// significant: it breaks query-score ties deterministically.
	Descriptors []*Descriptor `json:"descriptors"`

	IndexedAt time.Time `json:"indexedAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "source ID required")
	}
	if s.ManifestURL == "" {
		return Errorf(EINVALID, "source manifest URL required")
	}
	seen := make(map[string]bool, len(s.Descriptors))
	for _, d := range s.Descriptors {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.Reference] {
			return Errorf(EINVALID, "duplicate descriptor reference %q", d.Reference)
		}
		seen[d.Reference] = true
	}
	return nil
}

// Descriptor returns the descriptor for a reference, or nil if the
// source does not track it.
func (s *Source) Descriptor(reference string) *Descriptor {
	for _, d := range s.Descriptors {
		if d.Reference == reference {
			return d
		}
	}
	return nil
}

// DocumentCount returns the number of tracked documents.
func (s *Source) DocumentCount() int {
	return len(s.Descriptors)
}

// Registry holds the full set of indexed sources plus the active
// source pointer. It is the unit of persistence and carries no
// concurrency control of its own; the owning state service serializes
// access.
type Registry struct {
	// Sources maps source ID to its entry.
	Sources map[string]*Source `json:"sources"`

	// ActiveSourceID, if set, must be a key in Sources.
	ActiveSourceID string `json:"activeSourceId,omitempty"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Sources: make(map[string]*Source)}
}

// Get returns the entry for a source ID, or nil if absent.
func (r *Registry) Get(sourceID string) *Source {
	return r.Sources[sourceID]
}

// Put stores an entry under its ID, replacing any previous entry.
func (r *Registry) Put(src *Source) {
	r.Sources[src.ID] = src
}

// Remove deletes an entry. Removing the active source clears the
// active pointer so the active-source invariant holds.
// Returns ENOTFOUND if the source does not exist.
func (r *Registry) Remove(sourceID string) error {
	if _, ok := r.Sources[sourceID]; !ok {
		return Errorf(ENOTFOUND, "source %q not found", sourceID)
	}
	delete(r.Sources, sourceID)
	if r.ActiveSourceID == sourceID {
		r.ActiveSourceID = ""
	}
	return nil
}

// SetActive marks a source as the one queries resolve against.
// Returns ENOTFOUND if the source does not exist.
func (r *Registry) SetActive(sourceID string) error {
	if _, ok := r.Sources[sourceID]; !ok {
		return Errorf(ENOTFOUND, "source %q not found", sourceID)
	}
	r.ActiveSourceID = sourceID
	return nil
}

// Active returns the active source, or nil if none is set.
func (r *Registry) Active() *Source {
	if r.ActiveSourceID == "" {
		return nil
	}
	return r.Sources[r.ActiveSourceID]
}

// IDs returns all source IDs in sorted order for deterministic output.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.Sources))
	for id := range r.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NormalizeSourceID derives the stable source ID from a manifest URL.
// Scheme and host are lowercased, fragments dropped, and trailing
// slashes trimmed so equivalent spellings map to one source.
func NormalizeSourceID(manifestURL string) string {
	u, err := url.Parse(strings.TrimSpace(manifestURL))
	if err != nil || u.Scheme == "" {
		return strings.TrimRight(strings.TrimSpace(manifestURL), "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
