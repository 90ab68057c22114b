package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/resumatch/internal/domain/model"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitInvalid = 2
)

// Input errors.
var (
	ErrConflictingJD = errors.New("use either -jd or -jd-file, not both")
	ErrReadInput     = errors.New("read input")
)

// Config holds one invocation of the analyze tool.
type Config struct {
	URL        string        // Analysis service endpoint
	ResumePath string        // Path of the resume file
	JD         string        // Job description text
	JDFile     string        // File holding the job description, "-" for stdin
	Timeout    time.Duration // Bound on the call, zero for none
	JSON       bool          // Print the terminal state as JSON
	Verbose    bool          // Enable debug logging on stderr
}

// Request reads the inputs named by c. A missing -resume yields a request
// without a file so validation can report it; a path that cannot be read is
// an error.
func (c *Config) Request(stdin io.Reader) (model.AnalysisRequest, error) {
	var req model.AnalysisRequest

	if c.JD != "" && c.JDFile != "" {
		return req, ErrConflictingJD
	}

	if c.ResumePath != "" {
		data, err := os.ReadFile(c.ResumePath)
		if err != nil {
			return req, fmt.Errorf("%w: resume: %w", ErrReadInput, err)
		}
		req.ResumeName = filepath.Base(c.ResumePath)
		req.Resume = data
	}

	switch c.JDFile {
	case "":
		req.JobDescription = c.JD
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("%w: job description from stdin: %w", ErrReadInput, err)
		}
		req.JobDescription = string(data)
	default:
		data, err := os.ReadFile(c.JDFile)
		if err != nil {
			return req, fmt.Errorf("%w: job description: %w", ErrReadInput, err)
		}
		req.JobDescription = string(data)
	}
	return req, nil
}
