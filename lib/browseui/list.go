// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import (
	"cmp"
	"slices"

	"github.com/fernwiki/fern/lib/store"
)

// rowKind distinguishes directory rows from page rows in the tree
// pane.
type rowKind int

const (
	rowDirectory rowKind = iota
	rowPage
)

// treeRow is a single selectable line in the tree pane. In tree mode,
// rows mirror the directory structure with indentation; in filter
// mode, rows are a flat score-ordered list of matching pages.
type treeRow struct {
	kind  rowKind
	depth int

	// ref is the page reference for page rows and the directory
	// prefix for directory rows.
	ref string

	// text is the display string: the page title (tree mode), the
	// directory segment name, or "title  ref" (filter mode).
	text string

	collapsed bool // Directory rows: children currently hidden.

	// Filter mode: fuzzy score and matched rune positions in text.
	score     int
	positions []int
}

// flattenTree converts the store's page tree into display rows.
// Pages come before subdirectories at each level, matching the
// store's tree ordering. Collapsed directories contribute their own
// row but none of their contents.
func flattenTree(root *store.TreeNode, collapsed map[string]bool) []treeRow {
	if root == nil {
		return nil
	}
	var rows []treeRow
	appendNode(&rows, root, 0, collapsed)
	return rows
}

func appendNode(rows *[]treeRow, node *store.TreeNode, depth int, collapsed map[string]bool) {
	for _, page := range node.Pages {
		*rows = append(*rows, treeRow{
			kind:  rowPage,
			depth: depth,
			ref:   page.Ref,
			text:  page.Title,
		})
	}
	for _, child := range node.Children {
		isCollapsed := collapsed[child.Ref]
		*rows = append(*rows, treeRow{
			kind:      rowDirectory,
			depth:     depth,
			ref:       child.Ref,
			text:      child.Name,
			collapsed: isCollapsed,
		})
		if !isCollapsed {
			appendNode(rows, child, depth+1, collapsed)
		}
	}
}

// filterSeparator sits between title and ref in a filter row's
// display text. Two spaces so a query cannot accidentally bridge the
// two fields with a single typed space.
const filterSeparator = "  "

// matchRows fuzzy-matches every page in the tree against query and
// returns the matches as flat rows sorted by score, best first.
// Matching runs over "title  ref" so queries hit either field; the
// returned positions index into that composite display text.
func matchRows(root *store.TreeNode, query string) []treeRow {
	if root == nil || query == "" {
		return nil
	}

	pattern := []rune(query)
	slab := newSlab()

	var rows []treeRow
	var collect func(node *store.TreeNode)
	collect = func(node *store.TreeNode) {
		for _, page := range node.Pages {
			display := page.Title + filterSeparator + page.Ref
			match := fuzzyMatch(display, pattern, slab)
			if match.Score <= 0 {
				continue
			}
			rows = append(rows, treeRow{
				kind:      rowPage,
				ref:       page.Ref,
				text:      display,
				score:     match.Score,
				positions: match.Positions,
			})
		}
		for _, child := range node.Children {
			collect(child)
		}
	}
	collect(root)

	slices.SortStableFunc(rows, func(a, b treeRow) int {
		if a.score != b.score {
			return cmp.Compare(b.score, a.score)
		}
		return cmp.Compare(a.ref, b.ref)
	})
	return rows
}

// pageCount counts the pages in a tree.
func pageCount(node *store.TreeNode) int {
	if node == nil {
		return 0
	}
	count := len(node.Pages)
	for _, child := range node.Children {
		count += pageCount(child)
	}
	return count
}
