package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/resumatch/internal/adapters/analyzer"
	"github.com/okian/resumatch/internal/app"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeAnalyzer returns queued outcomes in order. When gate is set, each call
// blocks until a value is sent on it.
type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   []model.AnalysisRequest
	results []model.AnalysisResult
	errs    []error
	gate    chan struct{}
	panics  bool
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	i := len(f.calls)
	f.calls = append(f.calls, req)
	var (
		res model.AnalysisResult
		err error
	)
	if i < len(f.results) {
		res = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var sampleResult = model.AnalysisResult{
	MatchScore:      78,
	MatchedKeywords: []string{"python", "sql"},
	MissingKeywords: []string{"docker"},
}

func sampleRequest() model.AnalysisRequest {
	return model.AnalysisRequest{ResumeName: "cv.pdf", Resume: []byte("%PDF"), JobDescription: "python sql docker"}
}

func TestController_New(t *testing.T) {
	Convey("Given a new controller", t, func() {
		c := app.New(&fakeAnalyzer{})

		Convey("Then it starts idle", func() {
			So(c.State().Phase(), ShouldEqual, state.PhaseIdle)
			So(c.Busy(), ShouldBeFalse)
		})
	})
}

func TestController_Submit(t *testing.T) {
	Convey("Given a controller", t, func() {
		ctx := context.Background()

		Convey("When the analysis succeeds", func() {
			fa := &fakeAnalyzer{results: []model.AnalysisResult{sampleResult}, errs: []error{nil}}
			c := app.New(fa)

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the result is published", func() {
				res, ok := final.Result()
				So(ok, ShouldBeTrue)
				So(res, ShouldResemble, sampleResult)
				So(c.State(), ShouldResemble, final)
				So(c.Busy(), ShouldBeFalse)
				So(fa.callCount(), ShouldEqual, 1)
			})
		})

		Convey("When the service reports a detail", func() {
			fa := &fakeAnalyzer{errs: []error{&analyzer.StatusError{StatusCode: 400, StatusText: "Bad Request", Detail: "unsupported file type"}}}
			c := app.New(fa)

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the message is exactly the detail", func() {
				msg, ok := final.Message()
				So(ok, ShouldBeTrue)
				So(msg, ShouldEqual, "unsupported file type")
			})
		})

		Convey("When the service reports no detail", func() {
			fa := &fakeAnalyzer{errs: []error{&analyzer.StatusError{StatusCode: 502, StatusText: "Bad Gateway"}}}
			c := app.New(fa)

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the generic message names the status", func() {
				msg, _ := final.Message()
				So(msg, ShouldEqual, "API Error: 502 Bad Gateway")
			})
		})

		Convey("When the service is unreachable", func() {
			fa := &fakeAnalyzer{errs: []error{fmt.Errorf("op: %w: dial tcp: connection refused", analyzer.ErrTransport)}}
			c := app.New(fa)

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the fixed fallback is shown", func() {
				msg, _ := final.Message()
				So(msg, ShouldEqual, "Failed to analyze. Is the backend server running correctly?")
			})
		})

		Convey("When the error is anonymous", func() {
			fa := &fakeAnalyzer{errs: []error{errors.New("")}}
			c := app.New(fa, app.WithFallbackMessage("backend down"))

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the configured fallback is shown", func() {
				msg, _ := final.Message()
				So(msg, ShouldEqual, "backend down")
			})
		})

		Convey("When the analyzer panics", func() {
			c := app.New(&fakeAnalyzer{panics: true})

			final := c.Submit(ctx, sampleRequest())

			Convey("Then the submission fails instead of crashing", func() {
				msg, ok := final.Message()
				So(ok, ShouldBeTrue)
				So(msg, ShouldEqual, app.FallbackMessage)
				So(c.Busy(), ShouldBeFalse)
			})
		})
	})
}

func TestController_Begin(t *testing.T) {
	Convey("Given a controller whose analyzer is held open", t, func() {
		fa := &fakeAnalyzer{
			gate:    make(chan struct{}),
			results: []model.AnalysisResult{sampleResult},
			errs:    []error{nil},
		}
		c := app.New(fa)

		Convey("When a submission begins", func() {
			done := c.Begin(context.Background(), sampleRequest())

			Convey("Then the controller is loading before the call resolves", func() {
				So(c.Busy(), ShouldBeTrue)
				So(c.State().Phase(), ShouldEqual, state.PhaseLoading)
				_, hasRes := c.State().Result()
				_, hasMsg := c.State().Message()
				So(hasRes, ShouldBeFalse)
				So(hasMsg, ShouldBeFalse)

				fa.gate <- struct{}{}
				final := <-done

				So(final.Phase(), ShouldEqual, state.PhaseSucceeded)
				So(c.Busy(), ShouldBeFalse)

				_, open := <-done
				So(open, ShouldBeFalse)
			})
		})
	})
}

func TestController_ResubmitClearsPriorOutcome(t *testing.T) {
	Convey("Given a controller that failed once", t, func() {
		var (
			mu      sync.Mutex
			history []state.State
		)
		fa := &fakeAnalyzer{
			results: []model.AnalysisResult{{}, sampleResult},
			errs:    []error{&analyzer.StatusError{StatusCode: 400, Detail: "unsupported file type"}, nil},
		}
		c := app.New(fa, app.WithOnChange(func(s state.State) {
			mu.Lock()
			history = append(history, s)
			mu.Unlock()
		}))
		first := c.Submit(context.Background(), sampleRequest())
		So(first.Phase(), ShouldEqual, state.PhaseFailed)

		Convey("When the user submits again", func() {
			second := c.Submit(context.Background(), sampleRequest())

			Convey("Then the error is cleared by Loading before the new result", func() {
				So(second.Phase(), ShouldEqual, state.PhaseSucceeded)
				mu.Lock()
				defer mu.Unlock()
				So(len(history), ShouldEqual, 4)
				So(history[0].Phase(), ShouldEqual, state.PhaseLoading)
				So(history[1].Phase(), ShouldEqual, state.PhaseFailed)
				So(history[2], ShouldResemble, state.Loading())
				So(history[3].Phase(), ShouldEqual, state.PhaseSucceeded)
			})

			Convey("And stats count both attempts", func() {
				stats := c.Stats()
				So(stats["submitted"], ShouldEqual, uint64(2))
				So(stats["succeeded"], ShouldEqual, uint64(1))
				So(stats["failed"], ShouldEqual, uint64(1))
				So(stats["phase"], ShouldEqual, "succeeded")
			})
		})
	})
}
