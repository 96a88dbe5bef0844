// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"strings"
	"testing"
)

// rendered renders a body and fails the test on error.
func rendered(t *testing.T, body string) string {
	t.Helper()
	out, err := Render(body)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return string(out)
}

func TestRenderEmpty(t *testing.T) {
	result := rendered(t, "")
	if result != "" {
		t.Errorf("expected empty output for empty body, got %q", result)
	}
}

func TestRenderParagraphAndHeadings(t *testing.T) {
	result := rendered(t, "# Title\n\nSome *emphasized* and **strong** text.\n")

	for _, want := range []string{"<h1>Title</h1>", "<p>", "<em>emphasized</em>", "<strong>strong</strong>"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in output:\n%s", want, result)
		}
	}
}

func TestRenderGFMTable(t *testing.T) {
	input := "| Name | Role |\n| ---- | ---- |\n| ada | admin |\n"
	result := rendered(t, input)

	for _, want := range []string{"<table>", "<th>Name</th>", "<td>ada</td>"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in output:\n%s", want, result)
		}
	}
}

func TestRenderGFMStrikethroughAndTaskList(t *testing.T) {
	result := rendered(t, "~~gone~~\n\n- [x] done\n- [ ] pending\n")

	if !strings.Contains(result, "<del>gone</del>") {
		t.Errorf("missing strikethrough in output:\n%s", result)
	}
	if !strings.Contains(result, "checkbox") {
		t.Errorf("missing task list checkboxes in output:\n%s", result)
	}
}

func TestRenderDefinitionList(t *testing.T) {
	result := rendered(t, "Term\n: its definition\n")

	for _, want := range []string{"<dl>", "<dt>Term</dt>", "<dd>its definition</dd>"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in output:\n%s", want, result)
		}
	}
}

func TestRenderEscapesHTMLBlock(t *testing.T) {
	result := rendered(t, "<script>alert 'pwned'</script>\n")

	if strings.Contains(result, "<script>") {
		t.Errorf("raw script tag passed through:\n%s", result)
	}
	if !strings.Contains(result, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag as visible text:\n%s", result)
	}
}

func TestRenderEscapesInlineHTML(t *testing.T) {
	result := rendered(t, "hello <b onclick=\"x\">world</b>\n")

	if strings.Contains(result, "<b ") {
		t.Errorf("raw inline tag passed through:\n%s", result)
	}
	if !strings.Contains(result, "&lt;b onclick=") {
		t.Errorf("expected escaped inline tag:\n%s", result)
	}
	// The text between the tags is ordinary content and stays.
	if !strings.Contains(result, "world") {
		t.Errorf("inline content lost:\n%s", result)
	}
}

func TestRenderHighlightsKnownLanguage(t *testing.T) {
	input := "```go\npackage main\n\nfunc main() {}\n```\n"
	result := rendered(t, input)

	if !strings.Contains(result, "<pre") {
		t.Errorf("missing pre block:\n%s", result)
	}
	// Inline styles mark highlighted output.
	if !strings.Contains(result, "style=") {
		t.Errorf("expected inline styles from the highlighter:\n%s", result)
	}
	if !strings.Contains(result, "<span") {
		t.Errorf("expected token spans from the highlighter:\n%s", result)
	}
	if !strings.Contains(result, "package") {
		t.Errorf("code content lost:\n%s", result)
	}
}

func TestRenderUnknownLanguageFallsBack(t *testing.T) {
	input := "```zorbl\nif a < b then c\n```\n"
	result := rendered(t, input)

	if !strings.Contains(result, "<pre><code>") {
		t.Errorf("expected plain code block fallback:\n%s", result)
	}
	if !strings.Contains(result, "a &lt; b") {
		t.Errorf("code content should be escaped verbatim:\n%s", result)
	}
}

func TestRenderBareFenceFallsBack(t *testing.T) {
	result := rendered(t, "```\nplain text\n```\n")

	if !strings.Contains(result, "<pre><code>plain text\n</code></pre>") {
		t.Errorf("expected plain code block for language-less fence:\n%s", result)
	}
}

func TestRenderIndentedCodeBlock(t *testing.T) {
	result := rendered(t, "    indented code\n")

	if !strings.Contains(result, "<pre><code>indented code\n</code></pre>") {
		t.Errorf("expected plain code block for indented code:\n%s", result)
	}
}

func TestRenderLinks(t *testing.T) {
	result := rendered(t, "[docs](/page/docs)\n")

	if !strings.Contains(result, `<a href="/page/docs">docs</a>`) {
		t.Errorf("missing link in output:\n%s", result)
	}
}
