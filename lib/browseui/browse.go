// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package browseui is the interactive terminal page browser behind
// fern browse: a two-pane bubbletea TUI with the page tree on the
// left and the selected page rendered to ANSI on the right. It reads
// straight from the page store, so it browses whatever is on disk,
// without a running server.
package browseui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/storage"
	"github.com/fernwiki/fern/lib/store"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusTree means navigation keys move the page tree cursor.
	FocusTree FocusRegion = iota
	// FocusPreview means navigation keys scroll the preview pane.
	FocusPreview
	// FocusFilter means keystrokes go to the fuzzy filter input.
	FocusFilter
)

// Split ratio bounds and step size.
const (
	splitRatioMin  = 0.20
	splitRatioMax  = 0.80
	splitRatioStep = 0.05
)

// Model is the top-level bubbletea model for the page browser.
type Model struct {
	store *store.Store
	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Page tree state. root is the discovery tree as last read from
	// the store; rows is the flattened display list, either the tree
	// in directory order or a score-ordered flat list of filter
	// matches.
	root      *store.TreeNode
	rows      []treeRow
	collapsed map[string]bool

	cursor       int
	scrollOffset int
	selectedRef  string // Stable focus: track selection by page reference.

	filter filterInput

	// Two-pane layout.
	focusRegion      FocusRegion
	priorFocus       FocusRegion // Saved focus when entering filter mode.
	splitRatio       float64     // Fraction of width for the tree pane.
	preview          previewPane // Right pane: rendered page body.
	draggingSplitter bool        // True while the user drags the divider.

	// Briefly shown in the help bar when a reload fails.
	statusNotice string
}

// NewModel creates a Model over the given page store and reads the
// initial page tree from it.
func NewModel(pageStore *store.Store) (Model, error) {
	root, err := pageStore.Tree()
	if err != nil {
		return Model{}, fmt.Errorf("reading page tree: %w", err)
	}

	model := Model{
		store:      pageStore,
		theme:      DefaultTheme,
		keys:       DefaultKeyMap,
		root:       root,
		collapsed:  make(map[string]bool),
		splitRatio: 0.35,
		preview:    newPreviewPane(DefaultTheme),
	}

	model.rebuildRows()
	if len(model.rows) > 0 {
		model.cursor = 0
		if model.rows[0].kind == rowPage {
			model.selectedRef = model.rows[0].ref
		}
	}

	return model, nil
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region and handles layout changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When the filter input is active, it sees every keystroke
		// first; q and navigation letters are just characters there.
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusTree {
				model.focusRegion = FocusPreview
			} else {
				model.focusRegion = FocusTree
			}

		case key.Matches(message, model.keys.SplitGrow):
			model.splitRatio += splitRatioStep
			if model.splitRatio > splitRatioMax {
				model.splitRatio = splitRatioMax
			}
			model.updatePaneSizes()

		case key.Matches(message, model.keys.SplitShrink):
			model.splitRatio -= splitRatioStep
			if model.splitRatio < splitRatioMin {
				model.splitRatio = splitRatioMin
			}
			model.updatePaneSizes()

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.active = true
			// Snap to the top so the best matches are in view as
			// the user types.
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.query != "" {
				model.filter.Clear()
				model.rebuildRows()
				model.restoreSelection()
				model.ensureCursorVisible()
				model.syncPreview()
			}

		case key.Matches(message, model.keys.Reload):
			model.reload()

		case key.Matches(message, model.keys.Open):
			model.openCurrentRow()

		default:
			if model.focusRegion == FocusTree {
				model.handleTreeKeys(message)
			} else {
				model.handlePreviewKeys(message)
			}
		}

	case tea.MouseMsg:
		model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.syncPreview()
	}
	return model, nil
}

// handleFilterKeys processes keystrokes while the filter input has
// focus.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits; 'q' is a regular character here.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		// Esc: clear the query first; a second Esc leaves filter mode.
		if model.filter.query != "" {
			model.filter.query = ""
			model.rebuildRows()
			model.restoreSelection()
			model.ensureCursorVisible()
			model.syncPreview()
		} else {
			model.filter.Clear()
			model.focusRegion = model.priorFocus
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		// Confirm the filter and return focus to the tree.
		model.filter.active = false
		model.focusRegion = FocusTree
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
		return model, nil
	}

	return model, nil
}

// handleTreeKeys processes navigation keys while the tree has focus.
func (model *Model) handleTreeKeys(message tea.KeyMsg) {
	previousCursor := model.cursor

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.rows)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.PageUp):
		model.cursor = model.clampedIndex(model.cursor - model.visibleHeight())

	case key.Matches(message, model.keys.PageDown):
		model.cursor = model.clampedIndex(model.cursor + model.visibleHeight())

	case key.Matches(message, model.keys.Home):
		model.cursor = 0

	case key.Matches(message, model.keys.End):
		if len(model.rows) > 0 {
			model.cursor = len(model.rows) - 1
		}
	case key.Matches(message, model.keys.Left):
		model.collapseOrGoToParent()

	case key.Matches(message, model.keys.Right):
		model.expandOrEnterDirectory()
	}

	model.ensureCursorVisible()
	if model.cursor != previousCursor {
		model.syncPreview()
	}
}

// handlePreviewKeys processes navigation keys while the preview pane
// has focus.
func (model *Model) handlePreviewKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.preview.ScrollLines(-1)
	case key.Matches(message, model.keys.Down):
		model.preview.ScrollLines(1)
	case key.Matches(message, model.keys.PageUp):
		model.preview.ScrollHalfUp()
	case key.Matches(message, model.keys.PageDown):
		model.preview.ScrollHalfDown()
	case key.Matches(message, model.keys.Home):
		model.preview.ScrollTop()
	case key.Matches(message, model.keys.End):
		model.preview.ScrollBottom()
	}
}

// openCurrentRow handles Enter on the tree: a directory toggles its
// collapse state, a page hands focus to the preview for scrolling.
func (model *Model) openCurrentRow() {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return
	}
	row := model.rows[model.cursor]
	if row.kind == rowDirectory {
		model.toggleDirectory(row.ref)
		return
	}
	model.focusRegion = FocusPreview
}

// toggleDirectory flips a directory's collapse state and rebuilds the
// rows, keeping the cursor on the directory.
func (model *Model) toggleDirectory(ref string) {
	model.collapsed[ref] = !model.collapsed[ref]
	model.rebuildRows()
	for index, row := range model.rows {
		if row.kind == rowDirectory && row.ref == ref {
			model.cursor = index
			break
		}
	}
	model.ensureCursorVisible()
}

// collapseOrGoToParent handles Left in the tree: an expanded
// directory collapses; any other row collapses the nearest directory
// above it and moves the cursor there. Filter results are flat, so
// Left does nothing while a filter is active.
func (model *Model) collapseOrGoToParent() {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return
	}

	row := model.rows[model.cursor]
	if row.kind == rowDirectory && !row.collapsed {
		model.collapsed[row.ref] = true
		model.rebuildRows()
		for index, rebuilt := range model.rows {
			if rebuilt.kind == rowDirectory && rebuilt.ref == row.ref {
				model.cursor = index
				break
			}
		}
		return
	}

	for index := model.cursor - 1; index >= 0; index-- {
		parent := model.rows[index]
		if parent.kind == rowDirectory && parent.depth < row.depth {
			model.collapsed[parent.ref] = true
			model.rebuildRows()
			for rebuiltIndex, rebuilt := range model.rows {
				if rebuilt.kind == rowDirectory && rebuilt.ref == parent.ref {
					model.cursor = rebuiltIndex
					break
				}
			}
			return
		}
	}
}

// expandOrEnterDirectory handles Right in the tree: a collapsed
// directory expands; an expanded one moves the cursor to its first
// entry. Page rows are a no-op.
func (model *Model) expandOrEnterDirectory() {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return
	}

	row := model.rows[model.cursor]
	if row.kind != rowDirectory {
		return
	}

	if row.collapsed {
		model.collapsed[row.ref] = false
		model.rebuildRows()
		for index, rebuilt := range model.rows {
			if rebuilt.kind == rowDirectory && rebuilt.ref == row.ref {
				model.cursor = index
				break
			}
		}
		return
	}

	if model.cursor+1 < len(model.rows) && model.rows[model.cursor+1].depth > row.depth {
		model.cursor++
	}
}

// handleMouse routes mouse events by position: the wheel scrolls
// whichever pane the pointer is over, clicks in the tree select or
// toggle rows, and dragging the divider resizes the split.
func (model *Model) handleMouse(message tea.MouseMsg) {
	treeWidth := model.treeWidth()
	contentStart := model.contentStartY()
	dividerX := treeWidth

	inContentArea := message.Y >= contentStart && message.Y < model.height-2
	inTreePane := message.X >= 0 && message.X < dividerX
	inPreviewPane := message.X > dividerX

	if model.draggingSplitter {
		if message.Action == tea.MouseActionRelease {
			model.draggingSplitter = false
			return
		}
		model.setSplitFromMouseX(message.X)
		return
	}

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if !inContentArea {
			return
		}
		if inTreePane || message.X == dividerX {
			model.scrollTreeBy(-1)
		} else {
			model.preview.ScrollLines(-3)
		}

	case tea.MouseButtonWheelDown:
		if !inContentArea {
			return
		}
		if inTreePane || message.X == dividerX {
			model.scrollTreeBy(1)
		} else {
			model.preview.ScrollLines(3)
		}

	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress || !inContentArea {
			return
		}
		if message.X == dividerX {
			model.draggingSplitter = true
			return
		}
		if inTreePane {
			model.handleTreeClick(message.Y - contentStart)
		} else if inPreviewPane {
			model.focusRegion = FocusPreview
		}
	}
}

// handleTreeClick selects the clicked row, toggling directories.
func (model *Model) handleTreeClick(rowOffset int) {
	// Clicking anywhere in the tree pane focuses it, even empty space
	// below the last row.
	model.focusRegion = FocusTree

	index := model.scrollOffset + rowOffset
	if index < 0 || index >= len(model.rows) {
		return
	}

	row := model.rows[index]
	if row.kind == rowDirectory {
		model.toggleDirectory(row.ref)
		return
	}
	model.cursor = index
	model.syncPreview()
}

// scrollTreeBy moves the cursor by delta rows (wheel scrolling).
func (model *Model) scrollTreeBy(delta int) {
	model.cursor = model.clampedIndex(model.cursor + delta)
	model.ensureCursorVisible()
	model.syncPreview()
}

// setSplitFromMouseX updates the split ratio from a divider drag,
// clamped to the configured bounds.
func (model *Model) setSplitFromMouseX(mouseX int) {
	if model.width <= 0 {
		return
	}
	ratio := float64(mouseX) / float64(model.width)
	if ratio < splitRatioMin {
		ratio = splitRatioMin
	}
	if ratio > splitRatioMax {
		ratio = splitRatioMax
	}
	model.splitRatio = ratio
	model.updatePaneSizes()
}

// applyFilter re-derives the rows for the current query and snaps the
// selection to the best match.
func (model *Model) applyFilter() {
	model.rebuildRows()
	model.cursor = 0
	model.scrollOffset = 0
	if len(model.rows) > 0 && model.rows[0].kind == rowPage {
		model.selectedRef = model.rows[0].ref
	}
	model.syncPreview()
}

// rebuildRows recomputes the display rows: filter matches when a
// query is live, the directory tree otherwise.
func (model *Model) rebuildRows() {
	if model.filter.query != "" {
		model.rows = matchRows(model.root, model.filter.query)
		return
	}
	model.rows = flattenTree(model.root, model.collapsed)
}

// restoreSelection moves the cursor back to the previously selected
// page if it is still visible, clamping otherwise.
func (model *Model) restoreSelection() {
	if model.selectedRef != "" {
		for index, row := range model.rows {
			if row.kind == rowPage && row.ref == model.selectedRef {
				model.cursor = index
				return
			}
		}
	}
	model.cursor = model.clampedIndex(model.cursor)
}

// clampedIndex returns position clamped to valid row bounds.
func (model *Model) clampedIndex(position int) int {
	if len(model.rows) == 0 {
		return 0
	}
	if position < 0 {
		return 0
	}
	if position >= len(model.rows) {
		return len(model.rows) - 1
	}
	return position
}

// reload re-reads the page tree from disk, keeping the selection
// where possible.
func (model *Model) reload() {
	root, err := model.store.Tree()
	if err != nil {
		model.statusNotice = "reload failed: " + err.Error()
		return
	}
	model.statusNotice = ""
	model.root = root
	model.rebuildRows()
	model.restoreSelection()
	model.ensureCursorVisible()
	model.syncPreview()
}

// syncPreview loads the page under the cursor into the preview pane.
// Directories preview their index page when one exists.
func (model *Model) syncPreview() {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		model.preview.Clear()
		return
	}

	row := model.rows[model.cursor]
	if row.kind == rowDirectory {
		doc, err := model.store.Load(row.ref)
		if err != nil {
			model.preview.Clear()
			return
		}
		model.preview.ShowPage(row.ref+"/"+store.IndexPage, doc)
		return
	}

	model.selectedRef = row.ref
	doc, err := model.store.Load(row.ref)
	if err != nil {
		model.preview.ShowProblem(row.ref, loadProblem(err))
		return
	}
	model.preview.ShowPage(row.ref, doc)
}

// loadProblem words a page load failure for the preview pane.
func loadProblem(err error) string {
	if storage.IsNotFound(err) {
		return "The page file has disappeared. Reload with r."
	}
	if parseError, ok := document.AsParseError(err); ok {
		return "The page file is damaged (" + parseError.Kind.String() + "). Run fern check."
	}
	return "The page could not be read: " + err.Error()
}

// updatePaneSizes recalculates pane dimensions after a resize or
// split ratio change.
func (model *Model) updatePaneSizes() {
	previewWidth := model.width - model.treeWidth() - 1
	if previewWidth < 10 {
		previewWidth = 10
	}
	model.preview.SetSize(previewWidth, model.visibleHeight())
}

// treeWidth returns the width of the tree pane in columns.
func (model Model) treeWidth() int {
	return int(float64(model.width) * model.splitRatio)
}

// contentStartY returns the Y coordinate where the content area
// begins. The top chrome line is always exactly one row: the header
// rule, or the filter bar replacing it.
func (model Model) contentStartY() int {
	return 1
}

// visibleHeight returns the number of tree rows that fit between the
// chrome: one line above, separator and help bar below.
func (model Model) visibleHeight() int {
	return model.height - model.contentStartY() - 2
}

// ensureCursorVisible adjusts scrollOffset so the cursor stays within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}

	maxOffset := len(model.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}

	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// View implements tea.Model. Renders the full frame: chrome line,
// two-pane content, separator, help bar.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	if len(model.rows) == 0 && model.filter.query == "" && !model.filter.active {
		return model.renderEmpty()
	}

	var sections []string

	filterView := model.filter.View(model.theme, model.width, model.matchCount())
	if filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	treeView := model.renderTreePane()
	divider := model.renderDivider()
	previewFocused := model.focusRegion == FocusPreview
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, treeView, divider, model.preview.View(previewFocused)))

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", max(model.width, 0)))
	sections = append(sections, separator)

	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

// matchCount is the number the filter bar reports: pages matching the
// query, or all pages when the query is still empty.
func (model Model) matchCount() int {
	if model.filter.query == "" {
		return pageCount(model.root)
	}
	return len(model.rows)
}

// renderHeader renders the top chrome: the fern label embedded in a
// horizontal rule with the page count on the right.
//
// Example: ─── fern ──────────────────────────── 12 pages ─
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	label := "fern"
	count := pageCount(model.root)
	stats := fmt.Sprintf("%d pages", count)
	if count == 1 {
		stats = "1 page"
	}

	used := 3 + 1 + lipgloss.Width(label) + 1 // leading rule, spaces, label
	rightWidth := 1 + lipgloss.Width(stats) + 1 + 1
	fill := model.width - used - rightWidth
	if fill < 1 {
		fill = 1
	}

	return separatorStyle.Render("───") +
		" " + labelStyle.Render(label) + " " +
		separatorStyle.Render(strings.Repeat("─", fill)) +
		" " + statsStyle.Render(stats) + " " +
		separatorStyle.Render("─")
}

// renderTreePane renders the visible slice of rows plus a scrollbar
// column.
func (model Model) renderTreePane() string {
	treeWidth := model.treeWidth()
	rowWidth := treeWidth - 1 // One column reserved for the scrollbar.
	focused := model.focusRegion == FocusTree

	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	var lines []string
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.rows); index++ {
		lines = append(lines, model.renderRow(model.rows[index], index == model.cursor, rowWidth))
	}

	emptyStyle := lipgloss.NewStyle().Width(rowWidth)
	for padding := len(lines); padding < visible; padding++ {
		lines = append(lines, emptyStyle.Render(""))
	}

	scrollbar := renderScrollbar(
		model.theme, visible,
		len(model.rows), visible, model.scrollOffset,
		focused,
	)

	content := lipgloss.NewStyle().
		Width(rowWidth).
		Height(visible).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderRow renders one tree row: directories carry a collapse
// indicator and trailing slash, pages show their title, filter
// matches highlight the matched characters.
func (model Model) renderRow(row treeRow, selected bool, width int) string {
	indent := strings.Repeat("  ", row.depth)

	if row.kind == rowDirectory {
		indicator := "▾"
		if row.collapsed {
			indicator = "▸"
		}
		text := indent + indicator + " " + row.text + "/"

		style := lipgloss.NewStyle().
			Foreground(model.theme.DirectoryForeground).
			Bold(true)
		if selected {
			style = style.
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
		}
		return style.Width(width).MaxWidth(width).Render(truncateRow(text, width))
	}

	baseStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	highlightStyle := lipgloss.NewStyle().
		Foreground(model.theme.NormalText).
		Background(model.theme.MatchBackground)
	if selected {
		baseStyle = lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
		// The selection background drowns a tint, so matches on the
		// selected row pop with bold and underline instead.
		highlightStyle = baseStyle.Bold(true).Underline(true)
	}

	text := truncateRow(row.text, width-lipgloss.Width(indent))
	rendered := indent + highlightRunes(text, row.positions, baseStyle, highlightStyle)

	wrapper := lipgloss.NewStyle().Width(width).MaxWidth(width)
	if selected {
		wrapper = wrapper.Background(model.theme.SelectedBackground)
	}
	return wrapper.Render(rendered)
}

// highlightRunes renders text with highlightStyle at the given rune
// positions and baseStyle elsewhere, batching runs of equal style
// into single render calls to keep the ANSI output compact.
func highlightRunes(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	isHighlighted := len(runes) > 0 && positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}

// truncateRow truncates text to maxWidth visual columns, ending with
// an ellipsis when something was cut.
func truncateRow(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth-1 {
			return candidate + "…"
		}
	}
	return "…"
}

// renderDivider renders the draggable vertical divider between the
// panes.
func (model Model) renderDivider() string {
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	color := model.theme.BorderColor
	if model.draggingSplitter {
		color = model.theme.Accent
	}

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return lipgloss.NewStyle().
		Foreground(color).
		Width(1).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}

// renderEmpty renders the empty state for a store with no pages.
func (model Model) renderEmpty() string {
	messageStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	return lipgloss.Place(
		model.width, model.height,
		lipgloss.Center, lipgloss.Center,
		messageStyle.Render("No pages yet. fern init creates a front page."),
	)
}

// renderHelp renders the bottom help bar with key hints and the list
// position.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "TREE"
	switch model.focusRegion {
	case FocusPreview:
		focusIndicator = "PREVIEW"
	case FocusFilter:
		focusIndicator = "FILTER"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  ←→ collapse/expand  Tab focus  ]/[ resize  / filter  r reload",
		focusIndicator)

	visible := model.visibleHeight()
	if len(model.rows) > visible && visible > 0 {
		position := "top"
		if model.scrollOffset+visible >= len(model.rows) {
			position = "bottom"
		} else if model.scrollOffset > 0 {
			percent := float64(model.scrollOffset) / float64(len(model.rows)-visible) * 100
			position = fmt.Sprintf("%d%%", int(percent))
		}
		help += fmt.Sprintf("  [%s] %d/%d", position, model.cursor+1, len(model.rows))
	} else if len(model.rows) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.rows))
	}

	if model.statusNotice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(model.theme.Accent).
			Bold(true)
		help += "  " + noticeStyle.Render(model.statusNotice)
	}

	return style.Render(help)
}
