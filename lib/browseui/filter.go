// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// filterInput holds the fuzzy filter query. The filter narrows the
// tree pane to matching pages client-side; clearing it restores the
// tree view.
type filterInput struct {
	// query is the current filter text.
	query string

	// active is true while the input has keyboard focus (the user
	// pressed / and has not confirmed or cancelled yet).
	active bool
}

// HandleRune appends a typed character to the query.
func (filter *filterInput) HandleRune(character rune) {
	filter.query += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// query was already empty.
func (filter *filterInput) HandleBackspace() bool {
	if filter.query == "" {
		return false
	}
	runes := []rune(filter.query)
	filter.query = string(runes[:len(runes)-1])
	return true
}

// Clear resets the query and deactivates the input.
func (filter *filterInput) Clear() {
	filter.query = ""
	filter.active = false
}

// View renders the filter bar. Active: query with a cursor and the
// live match count. Inactive with text: a subtle indicator. Empty and
// inactive: hidden (empty string).
func (filter *filterInput) View(theme Theme, width, matches int) string {
	if !filter.active && filter.query == "" {
		return ""
	}

	count := fmt.Sprintf("%d match", matches)
	if matches != 1 {
		count += "es"
	}

	if filter.active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("▎")
		bar := " / " + filter.query + cursor + "  " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(count)
		return lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width).
			MaxWidth(width).
			Render(bar)
	}

	return lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width).
		MaxWidth(width).
		Render(" filter: " + filter.query + "  " + count)
}
