// Package api provides the local HTTP status surface of the bundlesync
// daemon: health, scheduler status, sync history, and a manual check trigger.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hubsync/bundlesync/internal/history"
	"github.com/hubsync/bundlesync/internal/scheduler"
	"github.com/hubsync/bundlesync/internal/updater"
	"github.com/hubsync/bundlesync/internal/versions"
)

// SchedulerService is the scheduler surface the API exposes.
type SchedulerService interface {
	Status() scheduler.Status
	CheckNow(ctx context.Context) error
}

// Deps are the collaborators the API serves data from.
type Deps struct {
	Scheduler SchedulerService
	History   history.Log
	Guard     *updater.ActiveUpdateGuard
}

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewServer creates and configures the HTTP router with the given
// dependencies and options.
func NewServer(deps Deps, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	h := &handlers{deps: deps}

	r.Get("/health", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", h.status)
		r.Get("/history", h.history)
		r.Post("/check", h.check)
	})

	return r
}

// LoggingMiddleware logs HTTP requests with the process logger.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type handlers struct {
	deps Deps
}

type statusResponse struct {
	Scheduler     scheduler.Status     `json:"scheduler"`
	ActiveUpdates []string             `json:"activeUpdates"`
	Version       versions.VersionInfo `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (*handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	active := []string{}
	if h.deps.Guard != nil {
		active = h.deps.Guard.Active()
		sort.Strings(active)
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Scheduler:     h.deps.Scheduler.Status(),
		ActiveUpdates: active,
		Version:       versions.GetVersionInfo(),
	})
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	hub := r.URL.Query().Get("hub")
	profile := r.URL.Query().Get("profile")
	if hub == "" || profile == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "hub and profile query parameters are required"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.deps.History.GetHistory(r.Context(), hub, profile, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) check(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Scheduler.CheckNow(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
	case errors.Is(err, scheduler.ErrCheckInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
