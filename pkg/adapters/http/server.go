package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/relay"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Relay is the subset of relay.Service served over HTTP.
type Relay interface {
	Simplify(ctx context.Context, prompt string) (string, error)
	GenerateTitle(ctx context.Context, prompt string) string
}

// PromptRequest is the body of both relay endpoints.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// SimplifyResponse is returned by POST /api/simplify.
type SimplifyResponse struct {
	Simplified string `json:"simplified"`
}

// TitleResponse is returned by POST /api/generate-title.
type TitleResponse struct {
	Title string `json:"title"`
}

// ErrorResponse is returned on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Server exposes a Relay as a JSON API.
type Server struct {
	relay     Relay
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	staticDir string
	version   string
	origins   []string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry exposed on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStaticDir serves the files of dir under /.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithVersion sets the version reported on /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithAllowedOrigins restricts CORS. Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewHandler creates the HTTP handler for the relay.
func NewHandler(r Relay, opts ...Option) http.Handler {
	s := &Server{
		relay:    r,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		version:  "dev",
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Post("/api/simplify", s.Simplify)
	router.Post("/api/generate-title", s.GenerateTitle)
	router.Get("/health", s.Health)
	router.Get("/info", s.Info)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	if s.staticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(router)
}

// Simplify handles POST /api/simplify.
func (s *Server) Simplify(w http.ResponseWriter, r *http.Request) {
	var body PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("Simplify: Invalid request body", "error", err)
		writeJSON(w, s.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	simplified, err := s.relay.Simplify(r.Context(), body.Prompt)
	if err != nil {
		status := http.StatusInternalServerError
		resp := ErrorResponse{Error: "Failed to simplify question", Details: err.Error()}

		var relayErr *relay.Error
		if errors.As(err, &relayErr) {
			status = relayErr.Status
			resp = ErrorResponse{Error: relayErr.Message, Details: relayErr.Details}
		}
		s.logger.Error("Simplify failed", "status", status, "error", err)
		writeJSON(w, s.logger, status, resp)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, SimplifyResponse{Simplified: simplified})
}

// GenerateTitle handles POST /api/generate-title. It always answers 200.
func (s *Server) GenerateTitle(w http.ResponseWriter, r *http.Request) {
	var body PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("GenerateTitle: Invalid request body", "error", err)
		writeJSON(w, s.logger, http.StatusOK, TitleResponse{Title: domain.FallbackTitle("")})
		return
	}

	writeJSON(w, s.logger, http.StatusOK, TitleResponse{Title: s.relay.GenerateTitle(r.Context(), body.Prompt)})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"name":    "stepwise",
		"version": s.version,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
