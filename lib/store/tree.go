// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fernwiki/fern/lib/document"
)

// TreePage is one page in the discovery tree.
type TreePage struct {
	// Name is the final reference segment ("deploy" for
	// "guides/deploy").
	Name string

	// Ref is the full page reference.
	Ref string

	// Title is the page's metadata title. When the page file fails to
	// parse, the name stands in so the tree still shows the page
	// exists; fern check is the tool that surfaces the damage.
	Title string
}

// TreeNode is one directory of the discovery tree. Pages are sorted by
// title then name; child directories by name. Directories containing
// no pages anywhere beneath them are pruned.
type TreeNode struct {
	// Name is the directory's segment name, "" at the root.
	Name string

	// Ref is the directory's reference prefix, "" at the root.
	Ref string

	Pages    []TreePage
	Children []*TreeNode
}

// Tree builds the discovery tree by walking the store. Every page
// appears with its title; whether a caller gets to see the tree at all
// is an authorization question the caller answers before asking.
func (store *Store) Tree() (*TreeNode, error) {
	return store.buildTree("", store.root)
}

func (store *Store) buildTree(ref, directory string) (*TreeNode, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{Name: lastSegment(ref), Ref: ref}
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			childRef := joinRef(ref, name)
			if ValidateRef(childRef) != nil {
				continue
			}
			child, err := store.buildTree(childRef, filepath.Join(directory, name))
			if err != nil {
				return nil, err
			}
			if len(child.Pages) == 0 && len(child.Children) == 0 {
				continue
			}
			node.Children = append(node.Children, child)
			continue
		}

		if !strings.HasSuffix(name, PageExtension) {
			continue
		}
		pageName := strings.TrimSuffix(name, PageExtension)
		pageRef := joinRef(ref, pageName)
		if ValidateRef(pageRef) != nil {
			continue
		}

		title := pageName
		if doc, err := document.Load(filepath.Join(directory, name)); err == nil {
			title = doc.Metadata.Title
		}
		node.Pages = append(node.Pages, TreePage{Name: pageName, Ref: pageRef, Title: title})
	}

	sort.Slice(node.Pages, func(i, j int) bool {
		if node.Pages[i].Title != node.Pages[j].Title {
			return node.Pages[i].Title < node.Pages[j].Title
		}
		return node.Pages[i].Name < node.Pages[j].Name
	})
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})

	return node, nil
}

func joinRef(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + segment
}

func lastSegment(ref string) string {
	if index := strings.LastIndexByte(ref, '/'); index >= 0 {
		return ref[index+1:]
	}
	return ref
}
