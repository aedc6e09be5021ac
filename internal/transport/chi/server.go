// Package chi exposes the find-and-highlight engine over a JSON HTTP
// API: one session per loaded document, search and navigation
// endpoints, and an HTML render of the current highlight state. It is
// the stand-in for the UI layer that consumes the engine's surface.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/findlight/findlight"
	"github.com/findlight/findlight/internal/domain"
	logpkg "github.com/findlight/findlight/internal/logger"
	"github.com/findlight/findlight/internal/metrics"
)

// searchGrace is added to the debounce delay before a search request
// is reported as superseded.
const searchGrace = 2 * time.Second

// Config holds server settings.
type Config struct {
	Debounce         time.Duration
	MaxDocumentBytes int64
	MaxSessions      int
	SearchRate       float64 // searches per second, 0 = unlimited
	SearchBurst      int
	APIKeys          []string // empty disables authentication
}

// Server implements the HTTP API.
type Server struct {
	cfg      Config
	sessions *SessionStore
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(cfg Config, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: NewSessionStore(cfg.MaxSessions),
		logger:   logger,
	}
	if cfg.SearchRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SearchRate), cfg.SearchBurst)
	}
	return s
}

// Router builds the chi router with logging, metrics, and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.requestLogger)
	r.Use(BearerAuthMiddleware(s.cfg.APIKeys))

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.ValidatePattern)
		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{session}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.With(s.searchLimit).Post("/search", s.Search)
			r.Post("/next", s.Next)
			r.Post("/previous", s.Previous)
			r.Post("/goto", s.GoTo)
			r.Post("/clear", s.ClearSession)
			r.Get("/render", s.Render)
		})
	})
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

type createSessionRequest struct {
	HTML string `json:"html"`
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "html is required")
		return
	}

	engine, err := findlight.ParseString(req.HTML,
		findlight.WithMarkRenderer(),
		findlight.WithDebounce(s.cfg.Debounce),
		findlight.WithLogger(s.logger),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "Unparseable document: "+err.Error())
		return
	}

	id, err := s.sessions.Create(engine)
	if err != nil {
		engine.Close()
		writeError(w, http.StatusTooManyRequests, "too_many_sessions", err.Error())
		return
	}

	logpkg.FromContext(r.Context()).Info("session created",
		zap.String("session", id),
		zap.Int("active", s.sessions.Len()),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        id,
		"supported": engine.Supported(),
	})
}

type searchRequest struct {
	Query         string `json:"query"`
	Regex         bool   `json:"regex"`
	CaseSensitive bool   `json:"case_sensitive"`
	WholeWord     bool   `json:"whole_word"`
}

// Search handles POST /v1/sessions/{session}/search. The response
// carries the applied result; a request superseded by a newer search
// on the same session before its debounce elapsed reports 409.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engineFor(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Debounce+searchGrace)
	defer cancel()

	res, err := engine.Search(ctx, req.Query, findlight.SearchOptions{
		Regex:         req.Regex,
		CaseSensitive: req.CaseSensitive,
		WholeWord:     req.WholeWord,
	})
	if err != nil {
		// Last-call-wins: a newer search took over, nothing applied for this one.
		writeError(w, http.StatusConflict, "superseded", "Search superseded by a newer query")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":         res.TotalCount,
		"duration_ms":   res.Duration.Milliseconds(),
		"current_index": engine.CurrentIndex(),
	})
}

// Next handles POST /v1/sessions/{session}/next.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(e *findlight.Engine) { e.Next() })
}

// Previous handles POST /v1/sessions/{session}/previous.
func (s *Server) Previous(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(e *findlight.Engine) { e.Previous() })
}

type gotoRequest struct {
	Index int `json:"index"`
}

// GoTo handles POST /v1/sessions/{session}/goto.
func (s *Server) GoTo(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	s.navigate(w, r, func(e *findlight.Engine) { e.GoTo(req.Index) })
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, step func(*findlight.Engine)) {
	engine, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	step(engine)
	writeJSON(w, http.StatusOK, map[string]any{
		"current_index": engine.CurrentIndex(),
		"total":         engine.TotalMatches(),
	})
}

// ClearSession handles POST /v1/sessions/{session}/clear.
func (s *Server) ClearSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /v1/sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	opts := engine.Options()
	state := map[string]any{
		"query":         engine.Query(),
		"current_index": engine.CurrentIndex(),
		"total":         engine.TotalMatches(),
		"supported":     engine.Supported(),
		"options": map[string]bool{
			"regex":          opts.Regex,
			"case_sensitive": opts.CaseSensitive,
			"whole_word":     opts.WholeWord,
		},
	}
	if res := engine.LastResult(); res != nil {
		state["duration_ms"] = res.Duration.Milliseconds()
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}

// Render handles GET /v1/sessions/{session}/render.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	markup, err := engine.RenderHTML()
	if err != nil {
		writeError(w, http.StatusNotImplemented, "unsupported", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

type validateRequest struct {
	Pattern string `json:"pattern"`
}

// ValidatePattern handles POST /v1/validate.
func (s *Server) ValidatePattern(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	v := findlight.ValidatePattern(req.Pattern)

	writeJSON(w, http.StatusOK, map[string]any{
		"is_valid": v.IsValid,
		"error":    v.Err,
	})
}

func (s *Server) engineFor(w http.ResponseWriter, r *http.Request) (*findlight.Engine, bool) {
	id := chi.URLParam(r, "session")
	engine, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session_not_found", "Unknown session "+id)
		} else {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return nil, false
	}
	return engine, true
}

// searchLimit applies the global search rate limit.
func (s *Server) searchLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Search rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one canonical log line per request and places a
// request-scoped logger in the context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		reqLogger := s.logger.With(zap.String("request_id", requestID))
		ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
