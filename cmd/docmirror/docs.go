package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docmirror"
)

// lookupSource resolves an optional --source flag against the registry,
// falling back to the active source.
func lookupSource(deps *Dependencies, source string) (*docmirror.Source, error) {
	if source != "" {
		src, err := deps.State.Source(docmirror.NormalizeSourceID(source))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: source %q not indexed. Use 'docmirror list' to see available sources.\n", source)
			return nil, err
		}
		return src, nil
	}

	src, err := deps.State.Active()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: no active source. Use 'docmirror use <source>' to select one.\n")
		return nil, err
	}
	return src, nil
}

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	src, err := lookupSource(deps, c.Source)
	if err != nil {
		return err
	}

	if len(src.Descriptors) == 0 {
		fmt.Fprintf(deps.Stderr, "error: source %q has no documents\n", src.Name)
		return docmirror.Errorf(docmirror.ENOTFOUND, "source %q has no documents", src.ID)
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", src.Name, len(src.Descriptors))
	for i, desc := range src.Descriptors {
		title := desc.Title
		if title == "" {
			title = desc.Reference
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, title, desc.Reference)
		if desc.FetchStatus == docmirror.FetchFailed {
			fmt.Fprintf(deps.Stdout, "     (last fetch failed)\n")
		}
		if c.Full {
			if desc.Summary != "" {
				fmt.Fprintf(deps.Stdout, "     %s\n", desc.Summary)
			}
			if len(desc.Topics) > 0 {
				fmt.Fprintf(deps.Stdout, "     topics: %s\n", strings.Join(desc.Topics, ", "))
			}
		}
	}

	return nil
}
