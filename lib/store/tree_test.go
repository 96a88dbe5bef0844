// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTreeTitlesAndSorting(t *testing.T) {
	store := testStore(t)

	// Titles deliberately out of file-name order.
	pages := map[string]string{
		"zebra":     "Aardvark care",
		"aardvark":  "Zebra care",
		"same-a":    "Duplicate title",
		"same-b":    "Duplicate title",
		"guides/gc": "Garbage collection",
	}
	for ref, title := range pages {
		if err := store.Save(ref, testDocument(title)); err != nil {
			t.Fatalf("Save(%s): %v", ref, err)
		}
	}

	tree, err := store.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	// Root pages sorted by title, then name for equal titles.
	wantTitles := []string{"Aardvark care", "Duplicate title", "Duplicate title", "Zebra care"}
	wantNames := []string{"zebra", "same-a", "same-b", "aardvark"}
	if len(tree.Pages) != len(wantTitles) {
		t.Fatalf("root pages = %d, want %d", len(tree.Pages), len(wantTitles))
	}
	for i := range wantTitles {
		if tree.Pages[i].Title != wantTitles[i] {
			t.Errorf("Pages[%d].Title = %q, want %q", i, tree.Pages[i].Title, wantTitles[i])
		}
		if tree.Pages[i].Name != wantNames[i] {
			t.Errorf("Pages[%d].Name = %q, want %q", i, tree.Pages[i].Name, wantNames[i])
		}
	}

	if len(tree.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(tree.Children))
	}
	child := tree.Children[0]
	if child.Name != "guides" || child.Ref != "guides" {
		t.Errorf("child = %q (%q), want guides", child.Name, child.Ref)
	}
	if len(child.Pages) != 1 || child.Pages[0].Ref != "guides/gc" {
		t.Errorf("child pages = %+v, want guides/gc", child.Pages)
	}
}

func TestTreeDamagedPageKeepsPlaceholder(t *testing.T) {
	store := testStore(t)

	if err := store.Save("good", testDocument("Good page")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "broken.md"), []byte("no metadata here"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tree, err := store.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	if len(tree.Pages) != 2 {
		t.Fatalf("pages = %d, want 2 (damaged page must still be listed)", len(tree.Pages))
	}

	var foundBroken bool
	for _, page := range tree.Pages {
		if page.Ref == "broken" {
			foundBroken = true
			if page.Title != "broken" {
				t.Errorf("damaged page title = %q, want the name %q", page.Title, "broken")
			}
		}
	}
	if !foundBroken {
		t.Error("damaged page missing from the tree")
	}
}

func TestTreePrunesEmptyDirectories(t *testing.T) {
	store := testStore(t)

	if err := store.Save("page", testDocument("Page")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(store.Root(), "empty", "nested"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	tree, err := store.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("children = %+v, want none (empty directories pruned)", tree.Children)
	}
}

func TestTreeSkipsHiddenAndForeignFiles(t *testing.T) {
	store := testStore(t)

	if err := store.Save("visible", testDocument("Visible")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, name := range []string{".hidden.md", "notes.txt", "draft.md" + ".tmp"} {
		if err := os.WriteFile(filepath.Join(store.Root(), name), []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(store.Root(), ".git"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	tree, err := store.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(tree.Pages) != 1 || tree.Pages[0].Ref != "visible" {
		t.Errorf("pages = %+v, want only visible", tree.Pages)
	}
	if len(tree.Children) != 0 {
		t.Errorf("children = %+v, want none", tree.Children)
	}
}
