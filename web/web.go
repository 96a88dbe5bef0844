// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package web is the HTTP face of the wiki: routing, session
// handling, authorization gating, and HTML rendering. All page
// content flows through lib/store; this package never touches page
// files directly.
package web

import (
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/zeebo/blake3"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/session"
	"github.com/fernwiki/fern/lib/store"
)

// sessionCookie is the name of the session cookie.
const sessionCookie = "fern_session"

// maxFormBytes bounds form posts. A page body is the largest field;
// two megabytes is far beyond any sane wiki page.
const maxFormBytes = 2 << 20

// Server handles the wiki's HTTP requests.
type Server struct {
	store         *store.Store
	accountsPath  string
	mode          config.Mode
	createRule    access.Rule
	discoveryRule access.Rule
	sessions      *session.Codec
	templates     *templateSet
	logger        *slog.Logger
	handler       http.Handler
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Store is the page store. Required.
	Store *store.Store

	// AccountsPath is the accounts file location. The file is read per
	// login attempt, so account changes apply without a restart.
	AccountsPath string

	// Mode selects the authentication model.
	Mode config.Mode

	// CreateRule gates creating pages that do not exist.
	CreateRule access.Rule

	// DiscoveryRule gates the page tree listing.
	DiscoveryRule access.Rule

	// Sessions verifies and issues session cookies. Required.
	Sessions *session.Codec

	// TemplatesDir optionally overrides the embedded templates.
	TemplatesDir string

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// NewServer builds the wiki handler stack: routes wrapped in response
// compression wrapped in request logging.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		panic("web.Server: Store is required")
	}
	if cfg.Sessions == nil {
		panic("web.Server: Sessions is required")
	}
	if cfg.Logger == nil {
		panic("web.Server: Logger is required")
	}

	templates, err := loadTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:         cfg.Store,
		accountsPath:  cfg.AccountsPath,
		mode:          cfg.Mode,
		createRule:    cfg.CreateRule,
		discoveryRule: cfg.DiscoveryRule,
		sessions:      cfg.Sessions,
		templates:     templates,
		logger:        cfg.Logger,
	}
	s.handler = s.logRequests(gzhttp.GzipHandler(s.routes()))
	return s, nil
}

// Handler returns the complete middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleFront)
	mux.HandleFunc("GET /page/{ref...}", s.handleView)
	mux.HandleFunc("GET /edit/{ref...}", s.handleEdit)
	mux.HandleFunc("POST /save/{ref...}", s.handleSave)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.Handle("GET /static/", s.staticHandler())
	return mux
}

func (s *Server) staticHandler() http.Handler {
	fileServer := http.FileServerFS(staticFiles)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}

// --- Middleware ---

// statusRecorder captures the status and size a handler writes so the
// request log can report them.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"bytes", recorder.bytes,
			"duration", time.Since(start),
		)
	})
}

// --- Sessions and authorization ---

// currentSession reads and verifies the session cookie. Anything that
// does not verify reads as no session.
func (s *Server) currentSession(r *http.Request) *session.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	sess, ok := s.sessions.Decode(cookie.Value)
	if !ok {
		return nil
	}
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge := s.sessions.MaxAge(); maxAge > 0 {
		cookie.MaxAge = int(maxAge / time.Second)
	}
	http.SetCookie(w, cookie)
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// require maps an authorization verdict onto the HTTP response and
// reports whether the request may proceed. Interactive GETs from
// unauthenticated visitors go to the login form with a return path;
// everything else gets the bare status.
func (s *Server) require(w http.ResponseWriter, r *http.Request, sess *session.Session, rule access.Rule, returnTo string) bool {
	switch access.Evaluate(sess.Identity(), rule) {
	case access.Authorized:
		return true
	case access.AuthenticationRequired:
		if r.Method == http.MethodGet {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(returnTo), http.StatusSeeOther)
		} else {
			s.renderError(w, sess, http.StatusUnauthorized, "Login required",
				"You need to log in before doing that.")
		}
	default:
		s.renderError(w, sess, http.StatusForbidden, "Not allowed",
			"Your account does not have access to this.")
	}
	return false
}

// frameFor builds the navigation chrome for a view.
func (s *Server) frameFor(sess *session.Session, title string) frame {
	f := frame{
		Title:    title,
		LoggedIn: sess != nil,
		CSRF:     sess.FormToken(),
		ShowTree: access.Evaluate(sess.Identity(), s.discoveryRule) == access.Authorized,
	}
	if sess != nil {
		if name, ok := sess.Identity().Name(); ok {
			f.Who = name
		} else {
			f.Who = "editor"
		}
	}
	return f
}

// safeNext validates a post-login return path. Only site-relative
// paths pass; anything else falls back to the front page.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}

// --- Rendering helpers ---

func (s *Server) renderView(w http.ResponseWriter, status int, name string, data any) {
	if err := s.templates.render(w, status, name, data); err != nil {
		s.logger.Error("rendering template", "template", name, "error", err)
		http.Error(w, "template failure", http.StatusInternalServerError)
	}
}

func (s *Server) renderErrorPage(w http.ResponseWriter, sess *session.Session, status int, data errorData) {
	data.Frame = s.frameFor(sess, data.Heading)
	s.renderView(w, status, "error.html", data)
}

func (s *Server) renderError(w http.ResponseWriter, sess *session.Session, status int, heading, message string) {
	s.renderErrorPage(w, sess, status, errorData{Heading: heading, Message: message})
}

// --- Conditional requests ---

// pageETag derives the ETag for a page view. The document digest
// alone is not enough: the surrounding chrome (log in/out links, the
// anti-forgery token) varies by session, so the viewer's identity and
// session token fold into the tag. A 304 can then never replay one
// session's chrome to another.
func pageETag(doc *document.Document, sess *session.Session) string {
	hasher := blake3.New()
	digest := doc.Digest()
	hasher.Write(digest[:])
	hasher.Write([]byte(sess.Identity().String()))
	hasher.Write([]byte(sess.FormToken()))
	sum := hasher.Sum(nil)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// matchesETag reports whether an If-None-Match header matches the
// given ETag.
func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
