package docmirror

import (
	"net/url"
	"regexp"
	"strings"
)

// ManifestEntry is one document reference extracted from a manifest,
// in manifest order.
type ManifestEntry struct {
	Reference string
	Title     string
}

var (
	manifestLinkRE = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	manifestH1RE   = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)
)

// ParseManifest extracts document entries from an llms.txt style
// markdown manifest. Relative references are resolved against the
// manifest URL. Fragment-only, mailto and javascript links are
// skipped; the second return value counts skipped links. The manifest
// itself is never an entry. Returns EINVALID if no usable entries
// remain.
func ParseManifest(text, manifestURL string) ([]ManifestEntry, int, error) {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, 0, Errorf(EINVALID, "invalid manifest URL %q: %s", manifestURL, err)
	}

	var entries []ManifestEntry
	skipped := 0
	for _, m := range manifestLinkRE.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		target := strings.TrimSpace(m[2])

		if target == "" || strings.HasPrefix(target, "#") ||
			strings.HasPrefix(target, "mailto:") ||
			strings.HasPrefix(target, "javascript:") {
			skipped++
			continue
		}

		ref, err := base.Parse(target)
		if err != nil {
			skipped++
			continue
		}
		ref.Fragment = ""
		resolved := ref.String()
		if resolved == manifestURL {
			skipped++
			continue
		}
		if title == "" {
			title = resolved
		}
		entries = append(entries, ManifestEntry{Reference: resolved, Title: title})
	}

	entries = DedupeEntries(entries)
	if len(entries) == 0 {
		return nil, skipped, Errorf(EINVALID, "manifest %q contains no document links", manifestURL)
	}
	return entries, skipped, nil
}

// DedupeEntries collapses repeated references. The first occurrence
// keeps its position; the last occurrence's title wins.
func DedupeEntries(entries []ManifestEntry) []ManifestEntry {
	index := make(map[string]int, len(entries))
	out := make([]ManifestEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Reference]; ok {
			out[i].Title = e.Title
			continue
		}
		index[e.Reference] = len(out)
		out = append(out, e)
	}
	return out
}

// ProjectName extracts the project name from a manifest: the first H1
// heading, or the fallback when the manifest has none.
func ProjectName(text, fallback string) string {
	if m := manifestH1RE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}
