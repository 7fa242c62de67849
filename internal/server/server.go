// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/phishlens/internal/cache"
	"github.com/ppiankov/phishlens/internal/metrics"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/pipeline"
	"github.com/ppiankov/phishlens/internal/report"
)

const maxBodyBytes = 1 << 20

var healthKey = cache.Key("health")

// Analyzer is the subset of pipeline.Analyzer the server needs
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*model.AnalysisReport, error)
	Status(ctx context.Context) pipeline.Status
}

// Server serves predictions, health and metrics
type Server struct {
	analyzer  Analyzer
	cache     cache.Cache
	healthTTL time.Duration
	recorder  *metrics.Recorder
	logger    *slog.Logger
}

type predictRequest struct {
	URL string `json:"url"`
}

type healthResponse struct {
	Status               string `json:"status"`
	ClassifierLoaded     bool   `json:"classifier_loaded"`
	NarrativeAvailable   bool   `json:"narrative_available"`
	ReputationConfigured bool   `json:"reputation_configured"`
	NarrativeProvider    string `json:"narrative_provider,omitempty"`
}

// New creates a server. Health probes are cached for healthTTL.
func New(analyzer Analyzer, healthTTL time.Duration, recorder *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if healthTTL <= 0 {
		healthTTL = 30 * time.Second
	}
	return &Server{
		analyzer:  analyzer,
		cache:     cache.NewMemoryCache(healthTTL, 2*healthTTL),
		healthTTL: healthTTL,
		recorder:  recorder,
		logger:    logger,
	}
}

// Routes returns the router with all endpoints mounted
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Post("/predict", s.handlePredict)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.recorder.Handler())

	return r
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonError(w, pipeline.ErrURLRequired.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, pipeline.ErrURLRequired) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("analysis failed", "url", req.URL, "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report.NewResponse(rep))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if data, ok := s.cache.Get(healthKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	status := s.analyzer.Status(r.Context())
	data, err := json.Marshal(healthResponse{
		Status:               "healthy",
		ClassifierLoaded:     status.ClassifierLoaded,
		NarrativeAvailable:   status.NarrativeAvailable,
		ReputationConfigured: status.ReputationConfigured,
		NarrativeProvider:    status.NarrativeProvider,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = s.cache.Set(healthKey, data, s.healthTTL)

	writeRaw(w, http.StatusOK, data)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, code, data)
}

func writeRaw(w http.ResponseWriter, code int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
