// Package docmirror maintains a searchable, incrementally-updatable
// local mirror of remote documentation sets described by manifest
// files (llms.txt-style lists of titled document links). It resolves
// natural-language queries to the cached documents most likely to
// answer them, for consumption by an external answer generator.
//
// This package contains domain types, collaborator interfaces, and
// pure logic following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, gemini/, http/).
package docmirror
