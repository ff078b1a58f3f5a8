// Package api provides the HTTP API server for the campaign analytics engine.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campaign-insights/engine/dispatch"
	"campaign-insights/nlq"
	"campaign-insights/pkg/records"
	"campaign-insights/store"
)

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	dispatcher *dispatch.Dispatcher
	source     store.RecordSource
	translator nlq.Translator
	config     *Config
	log        *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	CORSOrigins    []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxRequestSize: 10 * 1024 * 1024, // 10MB
		CORSOrigins:    []string{"*"},
	}
}

// NewServer creates a new API server. translator may be nil; /api/v1/ask then
// answers 501.
func NewServer(d *dispatch.Dispatcher, source store.RecordSource, translator nlq.Translator, config *Config, log *slog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{
		dispatcher: d,
		source:     source,
		translator: translator,
		config:     config,
		log:        log,
	}
}

// Router builds the chi handler tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/ask", s.handleAsk)
		r.Get("/channels", s.handleChannels)
	})
	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info("API server starting", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts the server and drains it on SIGINT/SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
		requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		allowed := false
		for _, o := range s.config.CORSOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH ENDPOINTS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if p, ok := s.source.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			s.jsonError(w, http.StatusServiceUnavailable, "record store not ready")
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// =============================================================================
// ANALYZE ENDPOINT
// =============================================================================

// AnalyzeRequest carries the filter to analyze. An empty or missing filter
// analyzes every channel over all stored records.
type AnalyzeRequest struct {
	Filter records.Filter `json:"filter"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Filter != nil && !records.ValidFilter(req.Filter) {
		s.jsonError(w, http.StatusBadRequest, "filter values must be scalars")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.dispatch(r.Context(), req.Filter))
}

// =============================================================================
// ASK ENDPOINT
// =============================================================================

// AskRequest carries a natural-language question about campaign performance.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse pairs the translated filter with the report it produced.
type AskResponse struct {
	Question string           `json:"question"`
	Filter   records.Filter   `json:"filter"`
	Report   *dispatch.Report `json:"report"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.translator == nil {
		s.jsonError(w, http.StatusNotImplemented, "no translator configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Question == "" {
		s.jsonError(w, http.StatusBadRequest, "question is required")
		return
	}

	f, err := s.translator.Translate(r.Context(), req.Question)
	if err != nil {
		s.jsonError(w, http.StatusBadGateway, fmt.Sprintf("translation failed: %v", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, AskResponse{
		Question: req.Question,
		Filter:   f,
		Report:   s.dispatch(r.Context(), f),
	})
}

// =============================================================================
// CHANNELS ENDPOINT
// =============================================================================

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"channels": s.dispatcher.Channels(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) dispatch(ctx context.Context, f records.Filter) *dispatch.Report {
	start := time.Now()
	report := s.dispatcher.Dispatch(ctx, f)
	dispatchDuration.Observe(time.Since(start).Seconds())
	for _, e := range report.Errors {
		channelFailures.WithLabelValues(e.Channel, e.Code).Inc()
	}
	return report
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}
