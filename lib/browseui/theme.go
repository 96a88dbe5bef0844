// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the fern browse TUI and the
// terminal markdown renderer. All colors use lipgloss ANSI 256-color
// codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row in the tree pane.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Tree chrome.
	DirectoryForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Accent marks focused elements: the scrollbar thumb of the
	// focused pane and the filter input cursor.
	Accent lipgloss.Color

	// Filter match highlighting: background tint behind the
	// characters a fuzzy query matched.
	MatchBackground lipgloss.Color

	// Links and URLs inside rendered pages.
	LinkForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	DirectoryForeground: lipgloss.Color("108"), // sage green

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Accent: lipgloss.Color("114"), // fern green

	MatchBackground: lipgloss.Color("58"), // dark amber

	LinkForeground: lipgloss.Color("75"), // blue
}
