// Package mcp exposes docmirror over the Model Context Protocol so AI
// assistants can index documentation sites and query the mirrored docs.
package mcp

import "errors"

// ErrMissingIndexer is returned when the index service is not provided.
var ErrMissingIndexer = errors.New("mcp: index service is required")

// ErrMissingState is returned when the state service is not provided.
var ErrMissingState = errors.New("mcp: state service is required")

// ErrMissingContents is returned when the content store is not provided.
var ErrMissingContents = errors.New("mcp: content store is required")
