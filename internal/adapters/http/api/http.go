// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	State() state.State
	Begin(ctx context.Context, req model.AnalysisRequest) <-chan state.State
	Stats() map[string]any
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	stateHandler   *StateHandler
	analyzeHandler *AnalyzeHandler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger    logger.Logger
	maxUpload int64
	submitMu  *sync.Mutex
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxUploadBytes caps the size of a posted form.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUpload = n
		}
	}
}

// WithSubmitLock shares the lock serializing the busy check and Begin.
func WithSubmitLock(mu *sync.Mutex) Option {
	return func(o *serverOptions) {
		if mu != nil {
			o.submitMu = mu
		}
	}
}

// NewServer creates a new API server with all handlers. Submissions started
// through the API run under ctx.
func NewServer(ctx context.Context, deps Dependencies, opts ...Option) *Server {
	o := serverOptions{
		logger:    logger.Nop(),
		maxUpload: 32 << 20,
		submitMu:  &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		stateHandler:   NewStateHandler(deps),
		analyzeHandler: NewAnalyzeHandler(ctx, deps, o.submitMu, o.maxUpload, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/state", MetricsMiddleware(s.stateHandler.HandleState, "state"))
	mux.HandleFunc("POST /api/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
