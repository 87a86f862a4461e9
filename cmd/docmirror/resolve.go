package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	src, err := deps.State.Active()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: no active source. Use 'docmirror use <source>' to select one.\n")
		return err
	}

	matches := docmirror.ResolveQuery(src, c.Query, c.Limit)
	if len(matches) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no documents in %q match %q\n", src.Name, c.Query)
		return docmirror.Errorf(docmirror.ENOTFOUND, "no documents match %q", c.Query)
	}

	for _, m := range matches {
		fmt.Fprintf(deps.Stdout, "%3d  %s\n     %s\n", m.Score, m.Title, m.Reference)
	}

	return nil
}
