// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import (
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one candidate string against
// a filter query. Score is zero when the candidate does not match;
// higher scores are better matches. Positions lists the rune indices
// of the matched characters for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// The algo package keeps its character-class and bonus tables in
// package-level state that stays zeroed until Init is called; without
// it FuzzyMatchV2 never case-folds text and matches nothing.
func init() {
	algo.Init("default")
}

// newSlab allocates the scratch memory fzf's matcher reuses between
// calls. One slab per match loop; not safe for concurrent use.
func newSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// fuzzyMatch scores text against a query using fzf's V2 algorithm
// (Smith-Waterman style with affine gap penalties). Matching is
// case-insensitive: the text is folded by the algorithm and the
// pattern is folded here. A nil slab is allowed and allocates
// per-call.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}

	folded := make([]rune, len(pattern))
	for index, r := range pattern {
		folded[index] = unicode.ToLower(r)
	}

	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, folded, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		match.Positions = *positions
	}
	return match
}
