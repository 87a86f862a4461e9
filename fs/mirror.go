package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docmirror"
)

// RefToPath converts a document reference to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func RefToPath(reference string) (string, error) {
	u, err := url.Parse(reference)
	if err != nil {
		return "", docmirror.Errorf(docmirror.EINVALID, "invalid reference %q: %s", reference, err)
	}

	path := u.Path

	// Root or trailing slash becomes index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	if strings.HasSuffix(path, ".md") {
		return path, nil
	}
	return path + ".md", nil
}

// FormatDocument renders a descriptor and its content with YAML
// frontmatter.
func FormatDocument(d *docmirror.Descriptor, content []byte) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(d.Reference)
	b.WriteString("\ntitle: ")
	b.WriteString(d.Title)
	b.WriteString("\nindexed: ")
	b.WriteString(d.LastIndexedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.Write(content)
	return b.String()
}

// Mirror exports an indexed source as a tree of markdown files.
// Files are written to a temporary directory and moved into place
// atomically, so a failed export never clobbers a previous one.
type Mirror struct {
	baseDir  string
	contents docmirror.ContentStore
}

// NewMirror creates a Mirror writing under baseDir.
func NewMirror(baseDir string, contents docmirror.ContentStore) *Mirror {
	return &Mirror{baseDir: baseDir, contents: contents}
}

// Export writes every fetched document of src to baseDir/<name>.
// Descriptors without stored content are skipped. Returns the number
// of files written.
func (m *Mirror) Export(ctx context.Context, src *docmirror.Source, name string) (int, error) {
	tempDir := filepath.Join(m.baseDir, name+".tmp")
	finalDir := filepath.Join(m.baseDir, name)

	if err := os.RemoveAll(tempDir); err != nil {
		return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to clear temp directory: %s", err)
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to create temp directory: %s", err)
	}

	written := 0
	for _, d := range src.Descriptors {
		if d.ContentHash == "" {
			continue
		}
		content, err := m.contents.Get(ctx, d.ContentHash)
		if err != nil {
			if docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
				continue
			}
			os.RemoveAll(tempDir)
			return 0, err
		}

		relPath, err := RefToPath(d.Reference)
		if err != nil {
			os.RemoveAll(tempDir)
			return 0, err
		}

		fullPath := filepath.Join(tempDir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			os.RemoveAll(tempDir)
			return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to create export directory: %s", err)
		}
		if err := os.WriteFile(fullPath, []byte(FormatDocument(d, content)), 0644); err != nil {
			os.RemoveAll(tempDir)
			return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to write export file: %s", err)
		}
		written++
	}

	if err := os.RemoveAll(finalDir); err != nil {
		os.RemoveAll(tempDir)
		return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to replace export directory: %s", err)
	}
	if err := os.Rename(tempDir, finalDir); err != nil {
		os.RemoveAll(tempDir)
		return 0, docmirror.Errorf(docmirror.EINTERNAL, "failed to move export into place: %s", err)
	}

	return written, nil
}
