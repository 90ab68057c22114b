// Package app owns the submission lifecycle: it runs one analysis at a time
// and exposes a single coherent view of its outcome.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/resumatch/internal/adapters/analyzer"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/pkg/logger"
	"github.com/okian/resumatch/pkg/metrics"
)

// FallbackMessage is shown when the service could not be reached or answered
// with something that is not a result.
const FallbackMessage = "Failed to analyze. Is the backend server running correctly?"

// Analyzer performs the remote analysis call.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error)
}

// Controller holds the current submission state.
//
// It does not refuse overlapping submissions; callers check Busy before
// calling Begin. There is no cancellation, queueing or retry.
type Controller struct {
	mu       sync.RWMutex
	current  state.State
	analyzer Analyzer
	logger   logger.Logger
	fallback string
	onChange []func(state.State)

	submitted uint64
	succeeded uint64
	failed    uint64
}

// New constructs an idle Controller that submits through a.
func New(a Analyzer, opts ...Option) *Controller {
	c := &Controller{
		current:  state.Idle(),
		analyzer: a,
		logger:   logger.Nop(),
		fallback: FallbackMessage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current submission state.
func (c *Controller) State() state.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.State().Busy()
}

// Begin clears any previous error or result, enters Loading before it
// returns, and runs the analysis in its own goroutine. The returned channel
// yields the terminal state once and is then closed.
func (c *Controller) Begin(ctx context.Context, req model.AnalysisRequest) <-chan state.State {
	c.mu.Lock()
	c.submitted++
	c.mu.Unlock()

	// Loading carries neither error nor result, so this one assignment is
	// the reset.
	c.set(state.Loading())
	metrics.SetInFlight(1)
	c.logger.Info(ctx, "analysis submitted",
		logger.String("resume", req.ResumeName),
		logger.Int("job_description_len", len(req.JobDescription)),
	)

	done := make(chan state.State, 1)
	go func() {
		defer close(done)
		final := c.run(ctx, req)
		// Leaving Loading happens only here, by installing the terminal
		// state, so the two are never visible together.
		c.set(final)
		metrics.SetInFlight(0)
		done <- final
	}()
	return done
}

// Submit runs Begin and waits for the terminal state.
func (c *Controller) Submit(ctx context.Context, req model.AnalysisRequest) state.State {
	return <-c.Begin(ctx, req)
}

// Stats returns counters describing the controller's activity.
func (c *Controller) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]any{
		"phase":     c.current.Phase().String(),
		"submitted": c.submitted,
		"succeeded": c.succeeded,
		"failed":    c.failed,
	}
}

func (c *Controller) run(ctx context.Context, req model.AnalysisRequest) (final state.State) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(ctx, "analysis panicked", logger.Any("panic", r))
			c.recordFailure(metrics.OutcomeTransportError)
			final = state.Failed(c.fallback)
		}
	}()

	res, err := c.analyzer.Analyze(ctx, req)
	if err != nil {
		return c.failure(ctx, err)
	}

	c.mu.Lock()
	c.succeeded++
	c.mu.Unlock()
	_ = metrics.RecordSubmission(metrics.OutcomeSucceeded)
	metrics.SetLastMatchScore(res.MatchScore)
	c.logger.Info(ctx, "analysis succeeded",
		logger.Float64("match_score", res.MatchScore),
		logger.Int("matched", len(res.MatchedKeywords)),
		logger.Int("missing", len(res.MissingKeywords)),
	)
	return state.Succeeded(res)
}

// failure maps an analyzer error to the Failed state. Server-reported errors
// keep their message; anything else gets the fallback.
func (c *Controller) failure(ctx context.Context, err error) state.State {
	var serr *analyzer.StatusError
	if errors.As(err, &serr) {
		c.recordFailure(metrics.OutcomeServerError)
		c.logger.Warn(ctx, "analysis rejected by service",
			logger.Int("status", serr.StatusCode),
			logger.String("message", serr.Error()),
		)
		return state.Failed(serr.Error())
	}

	c.recordFailure(metrics.OutcomeTransportError)
	c.logger.Error(ctx, "analysis failed", logger.Error(fmt.Errorf("app.submit: %w", err)))
	return state.Failed(c.fallback)
}

func (c *Controller) recordFailure(outcome string) {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
	_ = metrics.RecordSubmission(outcome)
}

func (c *Controller) set(s state.State) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	for _, fn := range c.onChange {
		fn(s)
	}
}
