package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, matches, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, "Sources:")
	for _, m := range matches {
		fmt.Fprintf(deps.Stdout, "  %s\n", m.Reference)
	}

	return nil
}
