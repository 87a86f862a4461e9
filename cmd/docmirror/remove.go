package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	sourceID := docmirror.NormalizeSourceID(c.Source)

	if err := deps.State.RemoveEntry(deps.Ctx, sourceID); err != nil {
		if docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: source %q not indexed. Use 'docmirror list' to see available sources.\n", c.Source)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %s\n", sourceID)
	return nil
}
