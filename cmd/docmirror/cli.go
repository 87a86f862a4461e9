package main

import (
	"context"
	"io"

	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/fs"
	"github.com/fwojciec/docmirror/index"
	"github.com/fwojciec/docmirror/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	State    docmirror.StateService
	Contents docmirror.ContentStore
	Indexer  *index.Indexer
	Asker    *index.Asker
	Mirror   *fs.Mirror
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Index   IndexCmd   `cmd:"" help:"Index a documentation source"`
	List    ListCmd    `cmd:"" help:"List indexed sources"`
	Use     UseCmd     `cmd:"" help:"Select the source queries run against"`
	Remove  RemoveCmd  `cmd:"" help:"Remove an indexed source"`
	Docs    DocsCmd    `cmd:"" help:"List a source's indexed documents"`
	Resolve ResolveCmd `cmd:"" help:"Find documents matching a query"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about the active source"`
	Export  ExportCmd  `cmd:"" help:"Export a source as a local markdown mirror"`
	Serve   ServeCmd   `cmd:"" help:"Serve the MCP interface over stdio"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	URL         string `arg:"" help:"Manifest URL, or site base URL with --site"`
	Force       bool   `short:"f" help:"Re-summarize documents even when unchanged"`
	Site        bool   `short:"s" help:"Discover documents by crawling instead of fetching a manifest"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent fetch limit"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// UseCmd is the "use" subcommand.
type UseCmd struct {
	Source string `arg:"" help:"Source ID or manifest URL"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Source string `arg:"" help:"Source ID or manifest URL"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Source string `help:"Source ID (default the active source)"`
	Full   bool   `help:"Show summaries and topics"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	Query string `arg:"" help:"Terms to match against topics and summaries"`
	Limit int    `short:"n" default:"10" help:"Maximum number of results"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to answer from the active source"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Source string `help:"Source ID (default the active source)"`
	Name   string `help:"Directory name for the export (default the source name)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
