package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/okian/resumatch/internal/adapters/http/upload"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/pkg/logger"
	"github.com/okian/resumatch/pkg/metrics"
)

// Submitter starts submissions.
type Submitter interface {
	State() state.State
	Begin(ctx context.Context, req model.AnalysisRequest) <-chan state.State
}

// AnalyzeHandler handles POST /api/analyze.
type AnalyzeHandler struct {
	base      context.Context
	deps      Submitter
	mu        *sync.Mutex
	maxUpload int64
	logger    logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(ctx context.Context, deps Submitter, mu *sync.Mutex, maxUpload int64, l logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{base: ctx, deps: deps, mu: mu, maxUpload: maxUpload, logger: l}
}

// HandleAnalyze validates the multipart form, runs one submission and
// responds with the terminal state: 200 on success, 502 when the analysis
// failed. If the caller goes away first the submission still completes.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	done, status, code, err := h.begin(w, r)
	if err != nil {
		h.logger.Debug(r.Context(), "analyze request refused",
			logger.Int("status", status),
			logger.String("code", code),
			logger.Error(err))
		writeError(w, status, code, message(err))
		return
	}

	select {
	case final := <-done:
		status := http.StatusOK
		if final.Phase() == state.PhaseFailed {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, final)
	case <-r.Context().Done():
	}
}

func (h *AnalyzeHandler) begin(w http.ResponseWriter, r *http.Request) (<-chan state.State, int, string, error) {
	const op = "api.analyze"

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.deps.State().Busy() {
		metrics.RecordBusyReject()
		return nil, http.StatusConflict, "busy", NewKind(op, ErrBusy)
	}

	req, err := upload.Parse(w, r, h.maxUpload)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			return nil, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err)
		}
		return nil, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err)
	}
	if err := req.Validate(); err != nil {
		code := model.Reason(err)
		metrics.RecordValidationReject(code)
		return nil, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err)
	}
	return h.deps.Begin(h.base, req), 0, "", nil
}

func message(err error) string {
	if n := model.Notice(err); n != "" {
		return n
	}
	switch {
	case errors.Is(err, ErrBusy):
		return "An analysis is already running."
	case errors.Is(err, ErrTooLarge):
		return "The resume file is too large."
	default:
		return "The form could not be read."
	}
}
