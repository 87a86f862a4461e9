package main

import (
	"fmt"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	sources := deps.State.List()

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources indexed. Use 'docmirror index <url>' to add one.")
		return nil
	}

	active, _ := deps.State.Active()
	for _, src := range sources {
		marker := " "
		if active != nil && active.ID == src.ID {
			marker = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s  %d docs  indexed %s\n",
			marker, src.ID, src.Name, src.DocumentCount(), src.IndexedAt.Format("2006-01-02 15:04"))
	}

	return nil
}
