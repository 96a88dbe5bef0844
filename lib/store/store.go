// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package store maps page references to files under the wiki's data
// directory and moves documents in and out of them. A reference is the
// address a page has in a URL: "guides/deploy" lives in the file
// guides/deploy.md under the store root; "" and directory references
// resolve to the directory's index page. References are validated
// before they touch the filesystem, so a hostile URL cannot escape the
// root or reach hidden files.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fernwiki/fern/lib/document"
)

// IndexPage is the reference segment a directory reference resolves
// to: the store's front page is "index", and "guides/" is served by
// "guides/index".
const IndexPage = "index"

// PageExtension is appended to a resolved reference to form the file
// name.
const PageExtension = ".md"

// Store is a page store rooted at one directory. Methods are safe for
// concurrent use; writer mutual exclusion per page comes from the
// storage layer's exclusive temp-file create, not from locks here.
type Store struct {
	root string
}

// NewStore opens a store rooted at the given directory, creating it if
// needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (store *Store) Root() string {
	return store.root
}

// NormalizeRef maps the raw address from a URL to a canonical page
// reference: the empty address is the front page, and a trailing slash
// addresses the directory's index.
func NormalizeRef(raw string) string {
	if raw == "" || raw == "/" {
		return IndexPage
	}
	if strings.HasSuffix(raw, "/") {
		return raw + IndexPage
	}
	return raw
}

// FilePath validates ref and resolves it to the page's file path. A
// reference naming an existing directory resolves to that directory's
// index page, so "guides" and "guides/" serve the same file once
// guides/ exists on disk.
func (store *Store) FilePath(ref string) (string, error) {
	ref = NormalizeRef(ref)
	if err := ValidateRef(ref); err != nil {
		return "", err
	}

	resolved := filepath.Join(store.root, filepath.FromSlash(ref))
	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		resolved = filepath.Join(resolved, IndexPage)
	}
	return resolved + PageExtension, nil
}

// Load reads the page at ref. Errors come from FilePath (invalid
// reference) or document.Load (not found, damaged, I/O), classified as
// those packages describe.
func (store *Store) Load(ref string) (*document.Document, error) {
	path, err := store.FilePath(ref)
	if err != nil {
		return nil, err
	}
	return document.Load(path)
}

// Save writes the page at ref through the atomic write path.
func (store *Store) Save(ref string, doc *document.Document) error {
	path, err := store.FilePath(ref)
	if err != nil {
		return err
	}
	return doc.Save(path)
}

// Exists reports whether a page file exists at ref. It does not parse
// the file; a damaged page still exists.
func (store *Store) Exists(ref string) (bool, error) {
	path, err := store.FilePath(ref)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Walk calls fn for every page file under the root in lexical order,
// with the page's reference and file path. Entries whose names would
// not validate as references (dotfiles, leftover temp files, names
// with odd characters) are skipped rather than surfaced: they are not
// pages.
func (store *Store) Walk(fn func(ref, path string) error) error {
	return filepath.WalkDir(store.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relative, relErr := filepath.Rel(store.root, path)
		if relErr != nil {
			return relErr
		}
		if relative == "." {
			return nil
		}
		ref := filepath.ToSlash(relative)

		if entry.IsDir() {
			if ValidateRef(ref) != nil {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(ref, PageExtension) {
			return nil
		}
		ref = strings.TrimSuffix(ref, PageExtension)
		if ValidateRef(ref) != nil {
			return nil
		}
		return fn(ref, path)
	})
}
