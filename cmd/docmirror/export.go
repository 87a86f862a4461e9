package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	src, err := lookupSource(deps, c.Source)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = src.Name
	}

	written, err := deps.Mirror.Export(deps.Ctx, src, name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d documents from %s\n", written, src.Name)
	return nil
}
