// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fernwiki/fern/lib/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// pageTemplateNames lists the per-view template files. Each parses
// together with base.html into its own template set, so a view's
// "content" block never collides with another's.
var pageTemplateNames = []string{
	"page.html",
	"edit.html",
	"login.html",
	"tree.html",
	"error.html",
}

// templateSet holds one parsed template per view.
type templateSet struct {
	pages map[string]*template.Template
}

// loadTemplates parses the embedded templates, then layers any files
// from overrideDir on top. Overriding a file replaces the same-named
// embedded definition; files the override directory lacks keep their
// embedded versions.
func loadTemplates(overrideDir string) (*templateSet, error) {
	set := &templateSet{pages: make(map[string]*template.Template)}

	for _, name := range pageTemplateNames {
		tmpl, err := template.ParseFS(templateFiles, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded template %s: %w", name, err)
		}

		if overrideDir != "" {
			for _, file := range []string{"base.html", name} {
				path := filepath.Join(overrideDir, file)
				if _, err := os.Stat(path); err != nil {
					continue
				}
				if tmpl, err = tmpl.ParseFiles(path); err != nil {
					return nil, fmt.Errorf("parsing template override %s: %w", path, err)
				}
			}
		}

		set.pages[name] = tmpl
	}

	return set, nil
}

// render executes a view template into a buffer first, so a template
// failure mid-page turns into a plain 500 instead of half a page with
// a success status.
func (set *templateSet) render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := set.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// frame is the navigation chrome shared by every view.
type frame struct {
	// Title becomes the HTML document title.
	Title string

	// Who names the logged-in visitor for display.
	Who      string
	LoggedIn bool

	// ShowTree controls the page-tree link in the navigation.
	ShowTree bool

	// CSRF is the hidden form token, empty without a session.
	CSRF string
}

type viewData struct {
	Frame   frame
	Ref     string
	HTML    template.HTML
	CanEdit bool
}

type editData struct {
	Frame    frame
	Ref      string
	IsNew    bool
	Error    string
	Title    string
	ViewRule string
	EditRule string
	Body     string
}

type loginData struct {
	Frame frame
	Error string
	Next  string

	// WantName is false in single mode, where the form asks only for
	// the shared password.
	WantName bool
}

type treeData struct {
	Frame frame
	Root  *store.TreeNode
}

type errorData struct {
	Frame   frame
	Heading string
	Message string

	// CreateRef, when set, offers a "create this page" link on the
	// not-found view.
	CreateRef string
}
