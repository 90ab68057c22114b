package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/okian/resumatch/internal/adapters/analyzer"
	"github.com/okian/resumatch/internal/adapters/http/api"
	"github.com/okian/resumatch/internal/adapters/http/site"
	"github.com/okian/resumatch/internal/adapters/http/swagger"
	"github.com/okian/resumatch/internal/app"
	"github.com/okian/resumatch/internal/config"
	"github.com/okian/resumatch/pkg/logger"
)

// newMux builds the controller and registers the page, the JSON API and the
// docs on one mux. Submissions run under ctx.
func newMux(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.ServeMux, *app.Controller) {
	client := analyzer.New(
		analyzer.WithEndpoint(cfg.AnalyzeURL),
		analyzer.WithTimeout(cfg.RequestTimeout()),
		analyzer.WithLogger(log.Named("analyzer")),
	)
	ctrl := app.New(client, app.WithLogger(log.Named("controller")))

	// The page and the API share one lock so neither can start a submission
	// while the other is between its busy check and Begin.
	var submitMu sync.Mutex

	mux := http.NewServeMux()

	site.NewHandler(ctx, ctrl,
		site.WithLogger(log.Named("site")),
		site.WithMaxUploadBytes(cfg.MaxUploadBytes),
		site.WithRefreshInterval(cfg.RefreshInterval()),
		site.WithSubmitLock(&submitMu),
	).Register(mux)

	api.NewServer(ctx, ctrl,
		api.WithLogger(log.Named("api")),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithSubmitLock(&submitMu),
	).Register(mux)

	swagger.Register(ctx, mux)

	return mux, ctrl
}
