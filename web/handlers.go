// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/account"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/markdown"
	"github.com/fernwiki/fern/lib/session"
	"github.com/fernwiki/fern/lib/storage"
	"github.com/fernwiki/fern/lib/store"
)

// New pages start readable by everyone and editable by any account.
// The creator adjusts the rules in the same form that creates the
// page.
var (
	defaultViewRule = access.Anonymous()
	defaultEditRule = access.Authenticated()
)

func (s *Server) handleFront(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/page/"+store.IndexPage, http.StatusFound)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	ref := store.NormalizeRef(r.PathValue("ref"))

	doc, err := s.store.Load(ref)
	if err != nil {
		s.renderLoadError(w, sess, ref, err)
		return
	}

	if !s.require(w, r, sess, doc.Metadata.ViewRule, "/page/"+ref) {
		return
	}

	etag := pageETag(doc, sess)
	w.Header().Set("ETag", etag)
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rendered, err := markdown.Render(doc.Body)
	if err != nil {
		s.logger.Error("rendering page", "ref", ref, "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Render failure",
			"The page could not be rendered.")
		return
	}

	canEdit := access.Evaluate(sess.Identity(), doc.Metadata.EditRule) == access.Authorized
	s.renderView(w, http.StatusOK, "page.html", viewData{
		Frame:   s.frameFor(sess, doc.Metadata.Title),
		Ref:     ref,
		HTML:    rendered,
		CanEdit: canEdit,
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	ref := store.NormalizeRef(r.PathValue("ref"))

	doc, err := s.store.Load(ref)
	switch {
	case err == nil:
		if !s.require(w, r, sess, doc.Metadata.EditRule, "/edit/"+ref) {
			return
		}
		s.renderView(w, http.StatusOK, "edit.html", editData{
			Frame:    s.frameFor(sess, "Edit "+doc.Metadata.Title),
			Ref:      ref,
			Title:    doc.Metadata.Title,
			ViewRule: formatRuleField(doc.Metadata.ViewRule),
			EditRule: formatRuleField(doc.Metadata.EditRule),
			Body:     doc.Body,
		})

	case storage.IsNotFound(err):
		if !s.require(w, r, sess, s.createRule, "/edit/"+ref) {
			return
		}
		s.renderView(w, http.StatusOK, "edit.html", editData{
			Frame:    s.frameFor(sess, "Create "+ref),
			Ref:      ref,
			IsNew:    true,
			ViewRule: formatRuleField(defaultViewRule),
			EditRule: formatRuleField(defaultEditRule),
		})

	default:
		s.renderLoadError(w, sess, ref, err)
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	ref := store.NormalizeRef(r.PathValue("ref"))

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, sess, http.StatusBadRequest, "Bad request",
			"The form submission could not be read.")
		return
	}

	if !sess.VerifyFormToken(r.PostFormValue("csrf")) {
		s.renderError(w, sess, http.StatusForbidden, "Stale form",
			"The form's session token did not match. Reload the editor and try again.")
		return
	}

	// Which rule gates the save depends on whether the page exists:
	// its own edit rule when it does, the site create rule when not.
	existing, err := s.store.Load(ref)
	var gate access.Rule
	switch {
	case err == nil:
		gate = existing.Metadata.EditRule
	case storage.IsNotFound(err):
		gate = s.createRule
	default:
		s.renderLoadError(w, sess, ref, err)
		return
	}
	if !s.require(w, r, sess, gate, "/edit/"+ref) {
		return
	}

	doc, formError := documentFromForm(r)
	if formError != "" {
		s.renderView(w, http.StatusUnprocessableEntity, "edit.html", editData{
			Frame:    s.frameFor(sess, "Edit "+ref),
			Ref:      ref,
			IsNew:    existing == nil,
			Error:    formError,
			Title:    r.PostFormValue("title"),
			ViewRule: r.PostFormValue("view_rule"),
			EditRule: r.PostFormValue("edit_rule"),
			Body:     r.PostFormValue("body"),
		})
		return
	}

	if err := s.store.Save(ref, doc); err != nil {
		s.renderSaveError(w, sess, ref, err)
		return
	}

	http.Redirect(w, r, "/page/"+ref, http.StatusSeeOther)
}

// documentFromForm builds the document a save submits. The second
// return is a user-facing validation message, empty on success.
func documentFromForm(r *http.Request) (*document.Document, string) {
	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		return nil, "Title must not be empty."
	}

	viewRule, err := parseRuleField(r.PostFormValue("view_rule"))
	if err != nil {
		return nil, "View rule: " + err.Error()
	}
	editRule, err := parseRuleField(r.PostFormValue("edit_rule"))
	if err != nil {
		return nil, "Edit rule: " + err.Error()
	}

	// Textareas submit CRLF line endings; pages store LF.
	body := strings.ReplaceAll(r.PostFormValue("body"), "\r\n", "\n")

	return &document.Document{
		Metadata: document.Metadata{
			Title:    title,
			ViewRule: viewRule,
			EditRule: editRule,
		},
		Body: body,
	}, ""
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if !s.require(w, r, sess, s.discoveryRule, "/tree") {
		return
	}

	root, err := s.store.Tree()
	if err != nil {
		s.logger.Error("listing pages", "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Listing failure",
			"The page tree could not be read.")
		return
	}

	s.renderView(w, http.StatusOK, "tree.html", treeData{
		Frame: s.frameFor(sess, "Pages"),
		Root:  root,
	})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if s.mode == config.ModeAnonymous {
		s.renderError(w, sess, http.StatusNotFound, "No login here",
			"This site runs without accounts.")
		return
	}

	s.renderView(w, http.StatusOK, "login.html", loginData{
		Frame:    s.frameFor(sess, "Log in"),
		Next:     safeNext(r.URL.Query().Get("next")),
		WantName: s.mode == config.ModeMulti,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if s.mode == config.ModeAnonymous {
		s.renderError(w, sess, http.StatusNotFound, "No login here",
			"This site runs without accounts.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, sess, http.StatusBadRequest, "Bad request",
			"The form submission could not be read.")
		return
	}

	next := safeNext(r.PostFormValue("next"))
	password := []byte(r.PostFormValue("password"))

	accounts, err := account.LoadFile(s.accountsPath)
	if err != nil {
		s.logger.Error("loading accounts file", "path", s.accountsPath, "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Login failure",
			"Accounts are unavailable right now. Try again.")
		return
	}

	var identity access.Identity
	switch s.mode {
	case config.ModeSingle:
		ok, err := accounts.VerifySingle(password)
		if err != nil {
			s.logger.Error("verifying password", "error", err)
			s.renderError(w, sess, http.StatusInternalServerError, "Login failure",
				"Accounts are unavailable right now. Try again.")
			return
		}
		if !ok {
			s.renderLoginFailure(w, sess, next)
			return
		}
		identity = access.SingleActor()

	case config.ModeMulti:
		name := r.PostFormValue("name")
		ok, err := accounts.VerifyAccount(name, password)
		if err != nil {
			s.logger.Error("verifying password", "account", name, "error", err)
			s.renderError(w, sess, http.StatusInternalServerError, "Login failure",
				"Accounts are unavailable right now. Try again.")
			return
		}
		if !ok {
			s.renderLoginFailure(w, sess, next)
			return
		}
		identity = access.Named(name)
	}

	newSession, err := session.New(identity)
	if err != nil {
		s.logger.Error("creating session", "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Login failure",
			"A session could not be created. Try again.")
		return
	}
	token, err := s.sessions.Encode(newSession)
	if err != nil {
		s.logger.Error("encoding session", "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Login failure",
			"A session could not be created. Try again.")
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// renderLoginFailure re-renders the login form with a deliberately
// vague message: whether the account exists is nobody's business.
func (s *Server) renderLoginFailure(w http.ResponseWriter, sess *session.Session, next string) {
	s.renderView(w, http.StatusUnauthorized, "login.html", loginData{
		Frame:    s.frameFor(sess, "Log in"),
		Error:    "Wrong credentials.",
		Next:     next,
		WantName: s.mode == config.ModeMulti,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)

	if err := r.ParseForm(); err != nil {
		s.renderError(w, sess, http.StatusBadRequest, "Bad request",
			"The form submission could not be read.")
		return
	}
	if !sess.VerifyFormToken(r.PostFormValue("csrf")) {
		s.renderError(w, sess, http.StatusForbidden, "Stale form",
			"The form's session token did not match.")
		return
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- Error mapping ---

// renderLoadError maps a page load failure onto the response: absent
// pages 404 (with a create link when the visitor may create), invalid
// refs 400, damaged pages and I/O failures 500.
func (s *Server) renderLoadError(w http.ResponseWriter, sess *session.Session, ref string, err error) {
	switch {
	case storage.IsNotFound(err):
		data := errorData{
			Heading: "No such page",
			Message: fmt.Sprintf("There is no page at %q.", ref),
		}
		if access.Evaluate(sess.Identity(), s.createRule) == access.Authorized {
			data.CreateRef = ref
		}
		s.renderErrorPage(w, sess, http.StatusNotFound, data)

	case store.IsInvalidRef(err):
		s.renderError(w, sess, http.StatusBadRequest, "Invalid page name", err.Error())

	default:
		if _, ok := document.AsParseError(err); ok {
			s.logger.Error("damaged page", "ref", ref, "error", err)
			s.renderError(w, sess, http.StatusInternalServerError, "Damaged page",
				"This page's file is damaged and cannot be displayed. Run fern check for details.")
			return
		}
		s.logger.Error("reading page", "ref", ref, "error", err)
		w.Header().Set("Cache-Control", "no-store")
		s.renderError(w, sess, http.StatusInternalServerError, "Read failure",
			"The page could not be read. Try again.")
	}
}

// renderSaveError maps a save failure onto the response. A conflict
// means another writer holds the page's temp file right now; that is
// a retry, not a bug.
func (s *Server) renderSaveError(w http.ResponseWriter, sess *session.Session, ref string, err error) {
	switch {
	case storage.IsConflict(err):
		s.renderError(w, sess, http.StatusConflict, "Save conflict",
			"Another save of this page is in flight. Wait a moment and try again.")

	case storage.IsInvalidPath(err), store.IsInvalidRef(err):
		s.renderError(w, sess, http.StatusBadRequest, "Invalid page name", err.Error())

	default:
		s.logger.Error("saving page", "ref", ref, "error", err)
		s.renderError(w, sess, http.StatusInternalServerError, "Save failure",
			"The page could not be written. Try again.")
	}
}
