// Package dochost is a small self-hostable document host speaking the
// protocol the backup client expects: bearer-authenticated
// list/create/update of documents plus unauthenticated raw file URLs.
package dochost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scanlog/internal/adapters/remote"
	"scanlog/internal/logging"
)

// maxBodySize bounds create and update request bodies
const maxBodySize = 64 << 20

// Server serves the document API
type Server struct {
	store     *documentStore
	tokens    map[string]struct{}
	publicURL string
	metrics   *Metrics
	logger    logging.Logger
	router    chi.Router
}

// Option configures a Server
type Option func(*Server)

// WithTokens restricts access to the given bearer tokens.
// Without tokens any non-empty token is accepted and acts as its own account.
func WithTokens(tokens ...string) Option {
	return func(s *Server) {
		for _, t := range tokens {
			if t = strings.TrimSpace(t); t != "" {
				s.tokens[t] = struct{}{}
			}
		}
	}
}

// WithPublicURL sets the externally visible base URL used in raw_url fields.
// By default it is derived from each request.
func WithPublicURL(u string) Option {
	return func(s *Server) { s.publicURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the server logger
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a document host with an empty in-memory store
func NewServer(opts ...Option) (*Server, error) {
	store, err := newDocumentStore()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:  store,
		tokens: make(map[string]struct{}),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open reports whether the server accepts any token
func (s *Server) Open() bool {
	return len(s.tokens) == 0
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/raw/{id}/{name}", s.handleRaw)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/documents", s.handleList)
		r.Post("/documents", s.handleCreate)
		r.Get("/documents/{id}", s.handleGet)
		r.Patch("/documents/{id}", s.handleUpdate)
	})
	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !s.Open() {
			if _, known := s.tokens[token]; !known {
				writeError(w, http.StatusUnauthorized, "bad credentials")
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), token)))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(r.Method, route, strconv.Itoa(status), elapsed.Seconds())
		s.logger.Debugw("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"elapsed", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.list(ownerFrom(r.Context()))
	if err != nil {
		s.internalError(w, err)
		return
	}

	docs := make([]remote.Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, s.render(r, rec, false))
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req remote.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "files must not be empty")
		return
	}
	if req.Visibility == "" {
		req.Visibility = "private"
	}
	if req.Visibility != "private" && req.Visibility != "public" {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown visibility %q", req.Visibility))
		return
	}

	files, size := fileContents(req.Files)
	rec, err := s.store.create(ownerFrom(r.Context()), req.Description, req.Visibility, files)
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.metrics.IncDocuments()
	s.metrics.AddWrittenBytes(size)
	s.logger.Infow("document created", "id", rec.ID, "files", len(files), "bytes", size)
	writeJSON(w, http.StatusCreated, s.render(r, rec, true))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.findOwned(ownerFrom(r.Context()), chi.URLParam(r, "id"))
	if s.lookupFailed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, s.render(r, rec, true))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req remote.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "files must not be empty")
		return
	}

	files, size := fileContents(req.Files)
	rec, err := s.store.update(ownerFrom(r.Context()), chi.URLParam(r, "id"), files)
	if s.lookupFailed(w, err) {
		return
	}

	s.metrics.AddWrittenBytes(size)
	s.logger.Infow("document updated", "id", rec.ID, "files", len(files), "bytes", size)
	writeJSON(w, http.StatusOK, s.render(r, rec, true))
}

// handleRaw serves file content without authentication; the unguessable id is the capability
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.find(chi.URLParam(r, "id"))
	if s.lookupFailed(w, err) {
		return
	}
	content, ok := rec.Files[chi.URLParam(r, "name")]
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

func (s *Server) render(r *http.Request, rec *documentRecord, withContent bool) remote.Document {
	doc := remote.Document{
		ID:          rec.ID,
		Description: rec.Description,
		Visibility:  rec.Visibility,
		Files:       make(map[string]remote.File, len(rec.Files)),
	}

	names := make([]string, 0, len(rec.Files))
	for name := range rec.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := remote.File{
			Filename: name,
			RawURL:   fmt.Sprintf("%s/raw/%s/%s", s.baseURL(r), rec.ID, name),
		}
		if withContent {
			f.Content = rec.Files[name]
		}
		doc.Files[name] = f
	}
	return doc
}

func (s *Server) baseURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) lookupFailed(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errDocumentNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	default:
		s.internalError(w, err)
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Errorw("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func fileContents(in map[string]remote.FileContent) (map[string]string, int) {
	files := make(map[string]string, len(in))
	size := 0
	for name, f := range in {
		files[name] = f.Content
		size += len(f.Content)
	}
	return files, size
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
