package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
)

// Run executes the use command.
func (c *UseCmd) Run(deps *Dependencies) error {
	sourceID := docmirror.NormalizeSourceID(c.Source)

	if err := deps.State.SetActive(deps.Ctx, sourceID); err != nil {
		if docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: source %q not indexed. Use 'docmirror list' to see available sources.\n", c.Source)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		}
		return err
	}

	src, err := deps.State.Source(sourceID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Active source: %s (%s)\n", src.Name, src.ID)
	return nil
}
