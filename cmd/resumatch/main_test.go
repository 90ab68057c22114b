package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/resumatch/internal/config"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func analyzeForm(t *testing.T, path string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume_file", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("%PDF-1.7"))
	_ = mw.WriteField("job_description", "Python and SQL")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a fake analysis service", t, func() {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"match_score":78,"matched_keywords":["python","sql"],"missing_keywords":["docker"]}`))
		}))
		defer backend.Close()

		cfg := config.New()
		cfg.AnalyzeURL = backend.URL + "/analyze/"

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mux, ctrl := newMux(ctx, cfg, logger.Nop())

		convey.Convey("When submitting through the JSON API", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, analyzeForm(t, "/api/analyze"))

			convey.Convey("Then the result comes back and the controller holds it", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var body map[string]any
				convey.So(json.Unmarshal(rec.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body["phase"], convey.ShouldEqual, "succeeded")
				convey.So(ctrl.State().Phase(), convey.ShouldEqual, state.PhaseSucceeded)
			})

			convey.Convey("And the page renders the results panel", func() {
				page := httptest.NewRecorder()
				mux.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

				convey.So(page.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(page.Body.String(), convey.ShouldContainSubstring, "Match Score: 78%")
				convey.So(page.Body.String(), convey.ShouldContainSubstring, "docker")
			})
		})

		convey.Convey("When submitting through the page", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, analyzeForm(t, "/analyze"))

			convey.Convey("Then the browser is redirected back to the page", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusSeeOther)
				convey.So(rec.Header().Get("Location"), convey.ShouldEqual, "/")
			})
		})

		convey.Convey("When fetching the docs", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestWriteTimeout(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()

		convey.Convey("Without a request timeout writes are unbounded", func() {
			convey.So(writeTimeout(cfg), convey.ShouldEqual, time.Duration(0))
		})

		convey.Convey("With a request timeout writes get slack on top", func() {
			cfg.RequestTimeoutMS = 2000
			convey.So(writeTimeout(cfg), convey.ShouldEqual, 2*time.Second+writeTimeoutSlack)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given an invalid address in the environment", t, func() {
		_ = os.Setenv("RESUMATCH_ADDR", "")
		defer func() { _ = os.Unsetenv("RESUMATCH_ADDR") }()

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}
