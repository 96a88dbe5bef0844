// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package document defines the persisted page unit, a metadata header
// plus a free-form markdown body, and the codec and load/save
// operations around it.
//
// On disk a page is framed as
//
//	---
//	title: Deployment guide
//	view_rule: anonymous
//	edit_rule:
//	  accounts: [alice]
//	---
//	body text, verbatim to end of file
//
// Load and Save compose the codec with lib/storage: loads classify a
// missing file apart from a damaged one apart from an I/O failure, and
// saves go through the atomic writer so a page file never holds a
// partial document and concurrent saves of the same page collide
// instead of interleaving.
package document

import (
	"fmt"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/storage"
)

// Metadata is the structured header of a page.
type Metadata struct {
	// Title is the page's display title, shown in lists and the
	// rendered page header. The file name is the page's address; the
	// title is free text.
	Title string

	// ViewRule guards reading the page.
	ViewRule access.Rule

	// EditRule guards modifying the page.
	EditRule access.Rule
}

// Equal reports whether two metadata values are identical.
func (metadata Metadata) Equal(other Metadata) bool {
	return metadata.Title == other.Title &&
		metadata.ViewRule.Equal(other.ViewRule) &&
		metadata.EditRule.Equal(other.EditRule)
}

// Document is a page held in memory: the metadata header and the body.
// The body is arbitrary text, stored verbatim and never validated;
// rendering concerns belong to the layers above.
type Document struct {
	Metadata Metadata
	Body     string
}

// Equal reports whether two documents are identical.
func (doc *Document) Equal(other *Document) bool {
	return doc.Metadata.Equal(other.Metadata) && doc.Body == other.Body
}

// Load reads and parses the page at path. Error classification is the
// reason this function exists:
//
//   - a missing file surfaces as storage.ReadError with ReadNotFound
//     (test with storage.IsNotFound), a stable answer callers may act on
//   - structural damage surfaces as *ParseError (test with
//     AsParseError), also stable, the file needs human repair
//   - anything else is transient I/O and should be retried or logged,
//     never cached as a stable result
//
// Parse errors are passed through with the path added and nothing else
// changed, so callers see which stage failed.
func Load(path string) (*Document, error) {
	reader, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	doc, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save atomically writes the document to path. On success the file
// holds exactly the serialized document; on any failure the previous
// file content, or absence, is untouched. Errors are
// *storage.WriteError throughout: a conflict means another save for
// the same page is mid-flight and the user should retry, an invalid
// path cannot succeed, and I/O failures are transient.
func (doc *Document) Save(path string) error {
	pending, err := storage.Create(path)
	if err != nil {
		return err
	}
	defer pending.Abandon()

	if err := Serialize(doc, pending); err != nil {
		return err
	}
	return pending.Commit()
}
