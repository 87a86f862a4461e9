package main

import (
	"fmt"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/index"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	var (
		result *index.Result
		err    error
	)
	if c.Site {
		result, err = deps.Indexer.IndexSite(deps.Ctx, c.URL, c.Force)
	} else {
		result, err = deps.Indexer.IndexSource(deps.Ctx, c.URL, c.Force)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
		return err
	}

	if result.FromCache {
		fmt.Fprintf(deps.Stdout, "Indexed %q (%s): manifest unchanged\n", result.Name, result.SourceID)
	} else {
		fmt.Fprintf(deps.Stdout, "Indexed %q (%s)\n", result.Name, result.SourceID)
	}
	fmt.Fprintf(deps.Stdout, "  %d/%d documents fetched\n", result.Succeeded, result.DocumentCount)

	for _, ref := range result.FailedReferences {
		fmt.Fprintf(deps.Stderr, "  fetch failed: %s\n", ref)
	}
	for _, ref := range result.SummarizeFailures {
		fmt.Fprintf(deps.Stderr, "  summarize failed: %s\n", ref)
	}

	// The first indexed source becomes active automatically.
	if _, err := deps.State.Active(); docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
		if err := deps.State.SetActive(deps.Ctx, result.SourceID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docmirror.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  Now the active source\n")
	}

	return nil
}
