package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/resumatch/internal/adapters/analyzer"
	"github.com/okian/resumatch/internal/app"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/internal/view"
	"github.com/okian/resumatch/pkg/logger"
)

// Streams are the standard streams used by Run.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run performs one analysis and returns the process exit code.
func Run(ctx context.Context, config *Config, s Streams) int {
	log := logger.Get().Named("cli")

	req, err := config.Request(s.In)
	if err != nil {
		fmt.Fprintln(s.Err, err)
		if errors.Is(err, ErrConflictingJD) {
			return ExitInvalid
		}
		return ExitFailed
	}

	if err := req.Validate(); err != nil {
		fmt.Fprintln(s.Err, model.Notice(err))
		return ExitInvalid
	}

	client := analyzer.New(
		analyzer.WithEndpoint(config.URL),
		analyzer.WithTimeout(config.Timeout),
		analyzer.WithLogger(log.Named("analyzer")),
	)

	opts := []app.Option{app.WithLogger(log)}
	if !config.JSON {
		opts = append(opts, app.WithOnChange(func(st state.State) {
			if line := view.NewRegions(st).Status; line != "" {
				fmt.Fprintln(s.Err, line)
			}
		}))
	}
	ctrl := app.New(client, opts...)

	log.Debug(ctx, "submitting",
		logger.String("url", client.Endpoint()),
		logger.String("resume", req.ResumeName),
		logger.Int("resumeBytes", len(req.Resume)))

	final := ctrl.Submit(ctx, req)

	if config.JSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(final); err != nil {
			log.Error(ctx, "failed to write result", logger.Error(err))
			return ExitFailed
		}
		return exitCode(final)
	}

	regions := view.NewRegions(final)
	switch {
	case regions.Error != "":
		fmt.Fprintln(s.Err, regions.Error)
	case regions.Results != nil:
		if err := regions.Results.WriteText(s.Out); err != nil {
			log.Error(ctx, "failed to write result", logger.Error(err))
			return ExitFailed
		}
	}
	return exitCode(final)
}

func exitCode(st state.State) int {
	if st.Phase() == state.PhaseSucceeded {
		return ExitOK
	}
	return ExitFailed
}
