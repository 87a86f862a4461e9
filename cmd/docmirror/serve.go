package main

import (
	"fmt"

	"github.com/fwojciec/docmirror/mcp"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ports := &mcp.Ports{
		Indexer:  deps.Indexer,
		State:    deps.State,
		Contents: deps.Contents,
	}
	if deps.Asker != nil {
		ports.Asker = deps.Asker
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Run(deps.Ctx)
}
