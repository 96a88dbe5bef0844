// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders page bodies to HTML.
//
// The dialect is CommonMark plus the GFM extensions (tables,
// strikethrough, autolinks, task lists) and definition lists. Page
// bodies are user content, so raw HTML never passes through: block and
// inline HTML are escaped into visible text rather than dropped, which
// keeps a page that pastes an HTML snippet readable instead of silently
// truncated. Fenced code blocks are highlighted server-side with
// inline styles; unknown languages fall back to a plain code block.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeStyle is the chroma style used for highlighted code blocks. A
// light style, page backgrounds are white.
const codeStyle = "github"

// engineInstance is initialized once and reused. The configuration
// never changes, and goldmark.Markdown is safe to share because
// parsing and rendering create per-call state.
var (
	engineInstance goldmark.Markdown
	engineOnce     sync.Once
)

func getEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engineInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(
					util.Prioritized(&pageRenderer{}, 200),
				),
			),
		)
	})
	return engineInstance
}

// Render converts a page body to HTML. The result is safe to embed
// directly: every HTML construct in the output was produced by the
// renderer, never copied from the input.
func Render(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := getEngine().Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// pageRenderer overrides the goldmark defaults for the node kinds where
// wiki pages need different behavior: code blocks highlight via chroma,
// and raw HTML escapes instead of being omitted.
type pageRenderer struct{}

func (r *pageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

func (r *pageRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	block := node.(*ast.FencedCodeBlock)
	language := ""
	if info := block.Language(source); info != nil {
		language = string(info)
	}

	code := blockText(source, node)
	if highlighted, ok := highlightCode(code, language); ok {
		w.WriteString(highlighted)
	} else {
		writePlainCode(w, code)
	}
	return ast.WalkContinue, nil
}

func (r *pageRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writePlainCode(w, blockText(source, node))
	}
	return ast.WalkContinue, nil
}

func (r *pageRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	block := node.(*ast.HTMLBlock)
	if entering {
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			w.WriteString(html.EscapeString(string(segment.Value(source))))
		}
	} else if block.HasClosure() {
		closure := block.ClosureLine
		w.WriteString(html.EscapeString(string(closure.Value(source))))
	}
	return ast.WalkContinue, nil
}

func (r *pageRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	raw := node.(*ast.RawHTML)
	for i := 0; i < raw.Segments.Len(); i++ {
		segment := raw.Segments.At(i)
		w.WriteString(html.EscapeString(string(segment.Value(source))))
	}
	return ast.WalkSkipChildren, nil
}

// blockText collects the source lines covered by a block node.
func blockText(source []byte, node ast.Node) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}

// codeFormatter emits inline styles so rendered pages need no
// stylesheet coupling to the highlighter.
var codeFormatter = chromahtml.New(chromahtml.TabWidth(4))

// highlightCode renders code through chroma. The second return is
// false when the language is unknown or tokenization fails; callers
// fall back to an unhighlighted block.
func highlightCode(code, language string) (string, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, styles.Get(codeStyle), iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}

func writePlainCode(w util.BufWriter, code string) {
	w.WriteString("<pre><code>")
	w.WriteString(html.EscapeString(code))
	w.WriteString("</code></pre>\n")
}
