// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/storage"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "pages"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func testDocument(title string) *document.Document {
	return &document.Document{
		Metadata: document.Metadata{
			Title:    title,
			ViewRule: access.Anonymous(),
			EditRule: access.Authenticated(),
		},
		Body: "content of " + title + "\n",
	}
}

func TestSaveLoadThroughStore(t *testing.T) {
	store := testStore(t)

	if err := store.Save("guides/deploy", testDocument("Deploying")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := store.Load("guides/deploy")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Metadata.Title != "Deploying" {
		t.Errorf("Title = %q, want %q", doc.Metadata.Title, "Deploying")
	}

	// The file lands where the reference says.
	if _, err := os.Stat(filepath.Join(store.Root(), "guides", "deploy.md")); err != nil {
		t.Errorf("expected file guides/deploy.md: %v", err)
	}
}

func TestLoadMissingPage(t *testing.T) {
	store := testStore(t)

	_, err := store.Load("nowhere")
	if !storage.IsNotFound(err) {
		t.Errorf("Load: error = %v, want not found", err)
	}
}

func TestExists(t *testing.T) {
	store := testStore(t)

	exists, err := store.Exists("guides/deploy")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("Exists = true for a page never saved")
	}

	if err := store.Save("guides/deploy", testDocument("Deploying")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	exists, err = store.Exists("guides/deploy")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists = false for a saved page")
	}

	if _, err := store.Exists("../outside"); !IsInvalidRef(err) {
		t.Errorf("Exists: error = %v, want invalid reference", err)
	}
}

func TestLoadInvalidRef(t *testing.T) {
	store := testStore(t)

	_, err := store.Load("../outside")
	if !IsInvalidRef(err) {
		t.Errorf("Load: error = %v, want invalid reference", err)
	}

	err = store.Save("../outside", testDocument("Escape"))
	if !IsInvalidRef(err) {
		t.Errorf("Save: error = %v, want invalid reference", err)
	}

	// Nothing may appear outside the root.
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(store.Root()), "outside.md")); !os.IsNotExist(statErr) {
		t.Error("a file escaped the store root")
	}
}

func TestEmptyRefIsFrontPage(t *testing.T) {
	store := testStore(t)

	if err := store.Save("", testDocument("Front")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := store.Load("index")
	if err != nil {
		t.Fatalf("Load(index): %v", err)
	}
	if doc.Metadata.Title != "Front" {
		t.Errorf("Title = %q, want %q", doc.Metadata.Title, "Front")
	}
}

func TestDirectoryRefResolvesToIndex(t *testing.T) {
	store := testStore(t)

	if err := store.Save("guides/index", testDocument("Guides overview")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("guides/deploy", testDocument("Deploying")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Once guides/ exists as a directory, the bare reference serves
	// its index page.
	doc, err := store.Load("guides")
	if err != nil {
		t.Fatalf("Load(guides): %v", err)
	}
	if doc.Metadata.Title != "Guides overview" {
		t.Errorf("Title = %q, want %q", doc.Metadata.Title, "Guides overview")
	}

	doc, err = store.Load("guides/")
	if err != nil {
		t.Fatalf("Load(guides/): %v", err)
	}
	if doc.Metadata.Title != "Guides overview" {
		t.Errorf("Title = %q, want %q", doc.Metadata.Title, "Guides overview")
	}
}

func TestWalkEnumeratesPages(t *testing.T) {
	store := testStore(t)

	for _, ref := range []string{"index", "guides/deploy", "guides/backup", "team/oncall"} {
		if err := store.Save(ref, testDocument(ref)); err != nil {
			t.Fatalf("Save(%s): %v", ref, err)
		}
	}

	// Noise that Walk must skip: a leftover temp file and a stray
	// non-page file.
	if err := os.WriteFile(filepath.Join(store.Root(), "guides", "deploy.md"+storage.TempSuffix), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var refs []string
	err := store.Walk(func(ref, path string) error {
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"guides/backup", "guides/deploy", "index", "team/oncall"}
	if len(refs) != len(want) {
		t.Fatalf("Walk found %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %q, want %q", i, refs[i], want[i])
		}
	}
}
