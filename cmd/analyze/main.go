package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/resumatch/internal/cli"
	"github.com/okian/resumatch/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Defaults for -url and -timeout come from .env, RESUMATCH_CONFIG and
	// RESUMATCH_* like the server's.
	if err := config.LoadDotEnv(ctx); err != nil {
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
		os.Exit(cli.ExitFailed)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(cli.ExitFailed)
	}

	var (
		url     = flag.String("url", cfg.AnalyzeURL, "Analysis endpoint")
		resume  = flag.String("resume", "", "Resume file to upload (.pdf or .docx)")
		jd      = flag.String("jd", "", "Job description text")
		jdFile  = flag.String("jd-file", "", `Read the job description from a file, "-" for stdin`)
		timeout = flag.Duration("timeout", cfg.RequestTimeout(), "Bound on the analysis call, 0 for none")
		asJSON  = flag.Bool("json", false, "Print the final state as JSON")
		verbose = flag.Bool("verbose", false, "Enable debug logging on stderr")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Usage = func() { cli.ShowHelp(os.Stderr) }
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(cli.ExitFailed)
	}

	code := cli.Run(ctx, &cli.Config{
		URL:        *url,
		ResumePath: *resume,
		JD:         *jd,
		JDFile:     *jdFile,
		Timeout:    *timeout,
		JSON:       *asJSON,
		Verbose:    *verbose,
	}, cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	stop()
	os.Exit(code)
}
