// Package site serves the resume analysis page: the input form and the
// status, error and results regions.
package site

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/okian/resumatch/internal/adapters/http/upload"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/internal/view"
	"github.com/okian/resumatch/pkg/logger"
	"github.com/okian/resumatch/pkg/metrics"
)

// Error constants.
var (
	ErrRender = errors.New("page render failed")
)

// Notices shown for form problems that are not input validation.
const (
	BusyNotice      = "An analysis is already running. Please wait for it to finish."
	TooLargeNotice  = "The resume file is too large."
	MalformedNotice = "The form could not be read. Please try again."
)

// Controller is the part of the application controller the page needs.
type Controller interface {
	State() state.State
	Begin(ctx context.Context, req model.AnalysisRequest) <-chan state.State
}

// Handler serves the page and accepts form submissions.
type Handler struct {
	base      context.Context
	ctrl      Controller
	form      *Form
	logger    logger.Logger
	maxUpload int64
	refresh   time.Duration
	submitMu  *sync.Mutex
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxUploadBytes caps the size of a posted form.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithSubmitLock shares the lock that serializes the busy check and the
// start of a submission with other surfaces, such as the JSON API.
func WithSubmitLock(mu *sync.Mutex) Option {
	return func(h *Handler) {
		if mu != nil {
			h.submitMu = mu
		}
	}
}

// WithRefreshInterval sets how often the page reloads while loading.
func WithRefreshInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.refresh = d
		}
	}
}

// NewHandler builds a Handler. Submissions run under ctx, so cancelling it
// (process shutdown) aborts an in-flight request.
func NewHandler(ctx context.Context, ctrl Controller, opts ...Option) *Handler {
	h := &Handler{
		base:      ctx,
		ctrl:      ctrl,
		form:      &Form{},
		logger:    logger.Nop(),
		maxUpload: 32 << 20,
		refresh:   time.Second,
		submitMu:  &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page, the form action and the stylesheet to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", h.HandlePage)
	mux.HandleFunc("POST /analyze", h.HandleAnalyze)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandlePage handles GET / and renders the current state.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "")
}

// HandleAnalyze handles POST /analyze. Valid input starts a submission and
// redirects back to the page; anything else re-renders it with a notice and
// leaves the submission state alone.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	h.submitMu.Lock()
	defer h.submitMu.Unlock()

	if h.ctrl.State().Busy() {
		metrics.RecordBusyReject()
		h.render(w, r, http.StatusConflict, BusyNotice)
		return
	}

	req, err := upload.Parse(w, r, h.maxUpload)
	h.form.SetDraft(req.JobDescription)
	if err != nil {
		status, notice := http.StatusBadRequest, MalformedNotice
		if errors.Is(err, upload.ErrTooLarge) {
			status, notice = http.StatusRequestEntityTooLarge, TooLargeNotice
		}
		h.logger.Warn(r.Context(), "form rejected", logger.Error(err))
		h.render(w, r, status, notice)
		return
	}

	if err := h.form.Submit(req, func(req model.AnalysisRequest) {
		h.ctrl.Begin(h.base, req)
	}); err != nil {
		metrics.RecordValidationReject(model.Reason(err))
		h.render(w, r, http.StatusBadRequest, model.Notice(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type pageData struct {
	Accept         string
	JobDescription string
	Notice         string
	Regions        view.Regions
	RefreshSeconds int
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, notice string) {
	data := pageData{
		Accept:         model.AcceptAttr(),
		JobDescription: h.form.Draft(),
		Notice:         notice,
		Regions:        view.NewRegions(h.ctrl.State()),
		RefreshSeconds: int(math.Max(1, math.Ceil(h.refresh.Seconds()))),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := pageTemplate.ExecuteTemplate(w, "index.html.tmpl", data); err != nil {
		h.logger.Error(r.Context(), "render page", logger.Error(errors.Join(ErrRender, err)))
	}
}
