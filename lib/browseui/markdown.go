// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package browseui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ansiCodeStyle is the chroma style for syntax-highlighted code in
// terminal output. Dark to match the default theme.
const ansiCodeStyle = "monokai"

// wrapBreakpoints are the characters ansi.Wrap may break long words
// at, in addition to spaces. Page refs ("guides/deploy-notes") break
// at the punctuation instead of overflowing the pane.
const wrapBreakpoints = " ,.;-+|/"

// The parser is shared: its configuration never changes and goldmark
// parsers are safe for concurrent use.
var (
	ansiParser     goldmark.Markdown
	ansiParserOnce sync.Once
)

func getANSIParser() goldmark.Markdown {
	ansiParserOnce.Do(func() {
		ansiParser = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return ansiParser
}

// Render parses markdown and renders it as styled terminal output,
// word-wrapped to width. Soft line breaks become spaces so
// hard-wrapped source reflows at any terminal width; code blocks
// keep their line structure and get chroma highlighting when the
// fence names a known language.
//
// Used by both the browse TUI preview pane and `fern view`.
func Render(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getANSIParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile. This output is always for a
	// terminal, and auto-detection would strip all color in test
	// environments with no TTY. SetColorProfile is needed because
	// lipgloss re-detects from the environment otherwise.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	walker := &ansiWriter{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, walker.walk)

	return strings.TrimRight(walker.output.String(), "\n")
}

// ansiWriter walks a goldmark AST and produces styled terminal text.
// It walks the AST directly rather than implementing goldmark's
// renderer interface because terminal rendering needs
// accumulate-then-wrap semantics: a paragraph's inline content
// collects in a buffer and is word-wrapped as a unit when the
// paragraph closes.
type ansiWriter struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator, flushed with word-wrap when the enclosing
	// block closes.
	inline strings.Builder

	// Prefix stack for nested containers (blockquotes, lists,
	// definition descriptions).
	prefixes    []blockPrefix
	prefix      string
	prefixWidth int

	// pendingBullet replaces the prefix for the next emitted line
	// only. Set when a list item opens.
	pendingBullet string

	// Style depth counters. Counters rather than booleans so nested
	// emphasis unwinds correctly.
	bold   int
	italic int
	strike int

	lists []listLevel

	lipRenderer *lipgloss.Renderer

	// Trailing newlines currently at the end of output, for blank
	// line management between blocks.
	trailing int
}

type blockPrefix struct {
	text  string
	width int
}

type listLevel struct {
	ordered bool
	number  int
	tight   bool
}

func (writer *ansiWriter) style() lipgloss.Style {
	return writer.lipRenderer.NewStyle()
}

// contentWidth is the wrap width after subtracting nesting prefixes,
// clamped so deep nesting cannot collapse to zero.
func (writer *ansiWriter) contentWidth() int {
	width := writer.width - writer.prefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (writer *ansiWriter) pushPrefix(text string, visibleWidth int) {
	writer.prefixes = append(writer.prefixes, blockPrefix{text: text, width: visibleWidth})
	writer.prefix += text
	writer.prefixWidth += visibleWidth
}

func (writer *ansiWriter) popPrefix() {
	if len(writer.prefixes) == 0 {
		return
	}
	top := writer.prefixes[len(writer.prefixes)-1]
	writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
	writer.prefix = writer.prefix[:len(writer.prefix)-len(top.text)]
	writer.prefixWidth -= top.width
}

func (writer *ansiWriter) inTightList() bool {
	if len(writer.lists) == 0 {
		return false
	}
	return writer.lists[len(writer.lists)-1].tight
}

func (writer *ansiWriter) write(s string) {
	if s == "" {
		return
	}
	writer.output.WriteString(s)

	count := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			count++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		writer.trailing += count
	} else {
		writer.trailing = count
	}
}

func (writer *ansiWriter) endLine() {
	if writer.trailing < 1 {
		writer.write("\n")
	}
}

func (writer *ansiWriter) blankLine() {
	for writer.trailing < 2 {
		writer.write("\n")
	}
}

// linePrefix returns the prefix for the next emitted line, consuming
// the pending bullet when one is set.
func (writer *ansiWriter) linePrefix() string {
	if writer.pendingBullet != "" {
		bullet := writer.pendingBullet
		writer.pendingBullet = ""
		return bullet
	}
	return writer.prefix
}

// prefixed prepends the line prefix to every line of content. The
// first line takes the pending bullet when set.
func (writer *ansiWriter) prefixed(content string) string {
	lines := strings.Split(content, "\n")
	var built strings.Builder
	for index, line := range lines {
		if index == 0 {
			built.WriteString(writer.linePrefix())
		} else {
			built.WriteString(writer.prefix)
		}
		built.WriteString(line)
		if index < len(lines)-1 {
			built.WriteString("\n")
		}
	}
	return built.String()
}

// flushInline wraps the accumulated inline content to the current
// width and applies prefixes. Resets the accumulator.
func (writer *ansiWriter) flushInline() string {
	content := writer.inline.String()
	writer.inline.Reset()
	if content == "" {
		return ""
	}
	wrapped := ansi.Wrap(content, writer.contentWidth(), wrapBreakpoints)
	return writer.prefixed(wrapped)
}

// styledText applies the current emphasis state to plain text.
func (writer *ansiWriter) styledText(content string) string {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineText renders a node's children into a string, saving and
// restoring the inline buffer and style counters around the nested
// walk.
func (writer *ansiWriter) inlineText(node ast.Node) string {
	savedInline := writer.inline.String()
	savedBold, savedItalic, savedStrike := writer.bold, writer.italic, writer.strike

	writer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, writer.walk)
	}
	collected := writer.inline.String()

	writer.inline.Reset()
	writer.inline.WriteString(savedInline)
	writer.bold, writer.italic, writer.strike = savedBold, savedItalic, savedStrike

	return collected
}

// blockLines joins a block node's raw source lines.
func (writer *ansiWriter) blockLines(node ast.Node) string {
	var built strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		built.Write(segment.Value(writer.source))
	}
	return built.String()
}

func (writer *ansiWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			writer.inline.Reset()
		} else {
			flushed := writer.flushInline()
			if flushed != "" {
				writer.write(flushed)
				writer.endLine()
				if !writer.inTightList() {
					writer.blankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			writer.inline.Reset()
		} else {
			writer.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			language := string(block.Language(writer.source))
			writer.writeCodeBlock(writer.blockLines(block), language)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			writer.writeCodeBlock(writer.blockLines(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			writer.pushPrefix("│ ", 2)
		} else {
			writer.popPrefix()
			writer.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := 0
			if list.IsOrdered() {
				start = list.Start
			}
			writer.lists = append(writer.lists, listLevel{
				ordered: list.IsOrdered(),
				number:  start,
				tight:   list.IsTight,
			})
		} else {
			if len(writer.lists) > 0 {
				writer.lists = writer.lists[:len(writer.lists)-1]
			}
			if !writer.inTightList() {
				writer.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			writer.enterListItem()
		} else {
			writer.popPrefix()
			if writer.inTightList() {
				writer.endLine()
			} else {
				writer.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := writer.style().
				Foreground(writer.theme.BorderColor).
				Render(strings.Repeat("─", writer.contentWidth()))
			writer.blankLine()
			writer.write(writer.prefixed(rule))
			writer.endLine()
			writer.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			stripped := strings.TrimSpace(stripTags(writer.blockLines(node)))
			if stripped != "" {
				faint := writer.style().Foreground(writer.theme.FaintText)
				writer.write(writer.prefixed(faint.Render(stripped)))
				writer.endLine()
				writer.blankLine()
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			writer.inline.WriteString(writer.styledText(string(textNode.Segment.Value(writer.source))))
			if textNode.SoftLineBreak() {
				// Soft breaks become spaces so hard-wrapped source
				// reflows at the terminal's width.
				writer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				writer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			writer.inline.WriteString(writer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			writer.bold += delta
		} else {
			writer.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			writer.writeCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			writer.writeLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(writer.source))
			writer.inline.WriteString(writer.style().Foreground(writer.theme.LinkForeground).Render(url))
		}

	case ast.KindImage:
		if entering {
			writer.writeImage(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			writer.writeRawHTML(node.(*ast.RawHTML))
		}

	case extast.KindStrikethrough:
		if entering {
			writer.strike++
		} else {
			writer.strike--
		}

	case extast.KindTable:
		if entering {
			writer.writeTable(node.(*extast.Table))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				done := writer.style().Foreground(writer.theme.FaintText)
				writer.inline.WriteString(done.Render("[x]") + " ")
			} else {
				writer.inline.WriteString(writer.styledText("[ ] "))
			}
		}

	case extast.KindDefinitionList:

	case extast.KindDefinitionTerm:
		if entering {
			writer.inline.Reset()
		} else {
			// The term's own bold replaces any inline styling.
			content := ansi.Strip(writer.inline.String())
			writer.inline.Reset()
			if content != "" {
				term := writer.style().
					Foreground(writer.theme.NormalText).
					Bold(true)
				writer.write(writer.prefixed(term.Render(content)))
				writer.endLine()
			}
		}

	case extast.KindDefinitionDescription:
		if entering {
			writer.pushPrefix("  ", 2)
		} else {
			writer.popPrefix()
		}
	}

	return ast.WalkContinue, nil
}

func (writer *ansiWriter) leaveHeading(heading *ast.Heading) {
	// The heading's own style replaces inline styling.
	content := ansi.Strip(writer.inline.String())
	writer.inline.Reset()
	if content == "" {
		return
	}

	style := writer.style().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(writer.theme.HeaderForeground)
	} else {
		style = style.Foreground(writer.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), writer.contentWidth(), wrapBreakpoints)
	writer.blankLine()
	writer.write(writer.prefixed(wrapped))
	writer.endLine()
	writer.blankLine()
}

// writeCodeBlock emits a code block line by line, preserving line
// structure. Chroma highlights when the language is known; otherwise
// the block renders faint.
func (writer *ansiWriter) writeCodeBlock(code, language string) {
	rendered := ""
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", ansiCodeStyle); err == nil {
			rendered = highlighted.String()
		}
	}
	if rendered == "" {
		rendered = writer.style().Foreground(writer.theme.FaintText).Render(code)
	}

	writer.blankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		writer.write(writer.linePrefix() + line)
		writer.endLine()
	}
	writer.blankLine()
}

func (writer *ansiWriter) enterListItem() {
	if len(writer.lists) == 0 {
		return
	}
	top := &writer.lists[len(writer.lists)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.number)
		top.number++
	} else {
		bullet = "• "
	}

	// Byte length equals visual width only because bullets are
	// measured after the marker rune; use lipgloss for safety.
	bulletWidth := lipgloss.Width(bullet)
	continuation := strings.Repeat(" ", bulletWidth)

	// The bullet carries the current prefix so it replaces the whole
	// prefix on the item's first line.
	writer.pendingBullet = writer.prefix + bullet
	writer.pushPrefix(continuation, bulletWidth)
}

func (writer *ansiWriter) writeCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			code.Write(typed.Segment.Value(writer.source))
		case *ast.String:
			code.Write(typed.Value)
		}
	}
	span := writer.style().Foreground(writer.theme.Accent)
	writer.inline.WriteString(span.Render(code.String()))
}

// writeLink renders link text in the link color with the destination
// in faint parens. Internal wiki links ("/page/guides/deploy") show
// the bare ref instead of the full URL path.
func (writer *ansiWriter) writeLink(link *ast.Link) {
	display := ansi.Strip(writer.inlineText(link))
	destination := string(link.Destination)

	linkStyle := writer.style().Foreground(writer.theme.LinkForeground)
	writer.inline.WriteString(linkStyle.Render(display))

	if ref, ok := strings.CutPrefix(destination, "/page/"); ok {
		destination = ref
	}
	if destination != "" && destination != display {
		faint := writer.style().Foreground(writer.theme.FaintText)
		writer.inline.WriteString(" " + faint.Render("("+destination+")"))
	}
}

func (writer *ansiWriter) writeImage(image *ast.Image) {
	alt := writer.inlineText(image)
	faint := writer.style().Foreground(writer.theme.FaintText)
	writer.inline.WriteString(faint.Render("[" + alt + "]"))
	if url := string(image.Destination); url != "" {
		writer.inline.WriteString(" " + faint.Render("("+url+")"))
	}
}

func (writer *ansiWriter) writeRawHTML(raw *ast.RawHTML) {
	var html strings.Builder
	for index := 0; index < raw.Segments.Len(); index++ {
		segment := raw.Segments.At(index)
		html.Write(segment.Value(writer.source))
	}
	if stripped := stripTags(html.String()); stripped != "" {
		faint := writer.style().Foreground(writer.theme.FaintText)
		writer.inline.WriteString(faint.Render(stripped))
	}
}

func (writer *ansiWriter) writeTable(table *extast.Table) {
	var header []string
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			header = writer.tableRowCells(child)
		case extast.KindTableRow:
			rows = append(rows, writer.tableRowCells(child))
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := make([]int, columns)
	measure := func(cells []string) {
		for index, cell := range cells {
			if index < columns {
				if width := lipgloss.Width(cell); width > widths[index] {
					widths[index] = width
				}
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	const gap = "  "
	total := len(gap) * (columns - 1)
	for _, width := range widths {
		total += width
	}
	if available := writer.contentWidth(); total > available {
		// Wide table: shrink columns proportionally, three columns
		// of content minimum each.
		usable := available - len(gap)*(columns-1)
		if usable < columns*3 {
			usable = columns * 3
		}
		for index := range widths {
			widths[index] = widths[index] * usable / total
			if widths[index] < 3 {
				widths[index] = 3
			}
		}
	}

	writer.blankLine()

	if len(header) > 0 {
		bold := writer.style().Bold(true).Foreground(writer.theme.NormalText)
		writer.write(writer.linePrefix() + writer.tableRowText(header, widths, table.Alignments, bold))
		writer.endLine()

		border := writer.style().Foreground(writer.theme.BorderColor)
		parts := make([]string, columns)
		for index, width := range widths {
			parts[index] = strings.Repeat("─", width)
		}
		writer.write(writer.prefix + border.Render(strings.Join(parts, gap)))
		writer.endLine()
	}

	for _, row := range rows {
		writer.write(writer.prefix + writer.tableRowText(row, widths, table.Alignments, writer.style()))
		writer.endLine()
	}

	writer.blankLine()
}

func (writer *ansiWriter) tableRowCells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() == extast.KindTableCell {
			cells = append(cells, writer.inlineText(cell))
		}
	}
	return cells
}

func (writer *ansiWriter) tableRowText(cells []string, widths []int, alignments []extast.Alignment, base lipgloss.Style) string {
	const gap = "  "
	parts := make([]string, 0, len(widths))
	for index, width := range widths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}

		visible := lipgloss.Width(cell)
		if visible > width {
			cell = ansi.Truncate(cell, width, "…")
			visible = lipgloss.Width(cell)
		}
		padding := width - visible
		if padding < 0 {
			padding = 0
		}

		var alignment extast.Alignment
		if index < len(alignments) {
			alignment = alignments[index]
		}
		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", padding) + cell
		case extast.AlignCenter:
			left := padding / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
		default:
			cell += strings.Repeat(" ", padding)
		}
		parts = append(parts, cell)
	}
	return base.Render(strings.Join(parts, gap))
}

// stripTags drops angle-bracketed tags, keeping only text content.
// Raw HTML renders as its visible text in the terminal.
func stripTags(html string) string {
	var plain strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			plain.WriteRune(character)
		}
	}
	return plain.String()
}
