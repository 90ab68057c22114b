// Package cli implements the one-shot analyze command: it validates a resume
// and a job description, submits them and prints the results view.
package cli

import (
	"fmt"
	"io"

	"github.com/okian/resumatch/pkg/logger"
)

// SetupLogging sends structured logs to w, at debug level when verbose and
// otherwise only warnings and errors so they do not mix with the results.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the analyze tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `resumatch analyze
=================

Submit a resume and a job description to the analysis service and print the
match score with matched and missing keywords.

Usage:
  analyze -resume <file> (-jd <text> | -jd-file <file|->) [options]

Options:
  -resume string
        Resume file to upload (.pdf or .docx)
  -jd string
        Job description text
  -jd-file string
        Read the job description from a file, "-" for stdin
  -url string
        Analysis endpoint (default from RESUMATCH_ANALYZE_URL or
        "http://127.0.0.1:8000/analyze/")
  -timeout duration
        Bound on the analysis call, 0 for none (default 0)
  -json
        Print the final state as JSON
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Exit status is 0 on success, 1 when the analysis failed and 2 when an input
is missing.

Examples:
  analyze -resume cv.pdf -jd "Senior Go engineer, Kubernetes, PostgreSQL"
  analyze -resume cv.docx -jd-file job.txt -json
  pbpaste | analyze -resume cv.pdf -jd-file -
`)
}
