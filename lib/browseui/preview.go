// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernwiki/fern/lib/document"
)

// previewHeaderLines is the fixed height of the preview pane header:
// title, ref + access rules, separator. Constant so the scrollable
// body never shifts vertically when switching pages.
const previewHeaderLines = 3

// previewPane is the right half of the browse TUI: a fixed header for
// the selected page's metadata above a scrollable viewport holding
// the ANSI-rendered body.
type previewPane struct {
	theme Theme

	viewport viewport.Model
	width    int
	height   int

	// Current page. body keeps the raw markdown so a resize can
	// re-render at the new width.
	ref      string
	title    string
	viewRule string
	editRule string
	body     string

	// Non-empty when the page failed to load; shown instead of a
	// body.
	problem string
}

func newPreviewPane(theme Theme) previewPane {
	return previewPane{theme: theme}
}

// SetSize updates the pane dimensions and re-renders the current body
// at the new wrap width.
func (pane *previewPane) SetSize(width, height int) {
	changed := width != pane.width
	pane.width = width
	pane.height = height

	pane.viewport.Width = width
	pane.viewport.Height = pane.bodyHeight()

	if changed && pane.body != "" {
		offset := pane.viewport.YOffset
		pane.viewport.SetContent(Render(pane.body, pane.theme, pane.contentWidth()))
		pane.clampOffset(offset)
	}
}

func (pane *previewPane) bodyHeight() int {
	height := pane.height - previewHeaderLines
	if height < 0 {
		height = 0
	}
	return height
}

// contentWidth leaves one column for the scrollbar and one space of
// breathing room before it.
func (pane *previewPane) contentWidth() int {
	width := pane.width - 2
	if width < 10 {
		width = 10
	}
	return width
}

// ShowPage renders a loaded document into the pane and scrolls to the
// top.
func (pane *previewPane) ShowPage(ref string, doc *document.Document) {
	pane.ref = ref
	pane.title = doc.Metadata.Title
	pane.viewRule = doc.Metadata.ViewRule.String()
	pane.editRule = doc.Metadata.EditRule.String()
	pane.body = doc.Body
	pane.problem = ""

	pane.viewport.SetContent(Render(doc.Body, pane.theme, pane.contentWidth()))
	pane.viewport.GotoTop()
}

// ShowProblem replaces the pane content with an error notice for ref.
func (pane *previewPane) ShowProblem(ref, message string) {
	pane.ref = ref
	pane.title = ""
	pane.viewRule = ""
	pane.editRule = ""
	pane.body = ""
	pane.problem = message
	pane.viewport.SetContent("")
	pane.viewport.GotoTop()
}

// Clear empties the pane (no page selected).
func (pane *previewPane) Clear() {
	pane.ref = ""
	pane.title = ""
	pane.viewRule = ""
	pane.editRule = ""
	pane.body = ""
	pane.problem = ""
	pane.viewport.SetContent("")
	pane.viewport.GotoTop()
}

// Ref returns the reference of the page currently shown, or "".
func (pane *previewPane) Ref() string {
	return pane.ref
}

func (pane *previewPane) clampOffset(offset int) {
	maxOffset := pane.viewport.TotalLineCount() - pane.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	pane.viewport.SetYOffset(offset)
}

// ScrollLines moves the body by delta lines (negative up).
func (pane *previewPane) ScrollLines(delta int) {
	pane.clampOffset(pane.viewport.YOffset + delta)
}

// ScrollHalfUp scrolls up half a screen.
func (pane *previewPane) ScrollHalfUp() {
	pane.viewport.HalfViewUp()
}

// ScrollHalfDown scrolls down half a screen.
func (pane *previewPane) ScrollHalfDown() {
	pane.viewport.HalfViewDown()
}

// ScrollTop jumps to the beginning of the body.
func (pane *previewPane) ScrollTop() {
	pane.viewport.GotoTop()
}

// ScrollBottom jumps to the end of the body.
func (pane *previewPane) ScrollBottom() {
	pane.clampOffset(pane.viewport.TotalLineCount())
}

// View renders the pane: header, body viewport, and a right-edge
// scrollbar reflecting body scroll state.
func (pane *previewPane) View(focused bool) string {
	header := pane.renderHeader()

	bodyWidth := pane.contentWidth()
	bodyHeight := pane.bodyHeight()

	var body string
	switch {
	case pane.problem != "":
		notice := lipgloss.NewStyle().
			Foreground(pane.theme.FaintText).
			Width(bodyWidth).
			Render(pane.problem)
		body = notice
	case pane.ref == "":
		body = lipgloss.NewStyle().
			Foreground(pane.theme.FaintText).
			Render("Select a page.")
	default:
		body = pane.viewport.View()
	}

	bodyBlock := lipgloss.NewStyle().
		Width(bodyWidth + 1).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	scrollbar := renderScrollbar(
		pane.theme, bodyHeight,
		pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset,
		focused,
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top, bodyBlock, scrollbar)
	return header + "\n" + content
}

// renderHeader produces the fixed three-line header.
func (pane *previewPane) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(pane.theme.HeaderForeground).
		Width(pane.width).
		MaxWidth(pane.width)
	metaStyle := lipgloss.NewStyle().
		Foreground(pane.theme.FaintText).
		Width(pane.width).
		MaxWidth(pane.width)

	title := pane.title
	meta := ""
	switch {
	case pane.problem != "":
		title = pane.ref
		meta = "unreadable page"
	case pane.ref == "":
		title = ""
	default:
		meta = pane.ref + "  ·  view: " + pane.viewRule + "  ·  edit: " + pane.editRule
	}

	separator := lipgloss.NewStyle().
		Foreground(pane.theme.BorderColor).
		Render(strings.Repeat("─", max(pane.width, 0)))

	return titleStyle.Render(title) + "\n" + metaStyle.Render(meta) + "\n" + separator
}
