// Package upload reads the resume form posted by the browser or an API client.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/resumatch/internal/domain/model"
)

// Form field names, shared with the outbound request.
const (
	FieldResume         = "resume_file"
	FieldJobDescription = "job_description"
)

// Sentinel kinds for upload errors.
var (
	ErrTooLarge  = errors.New("upload too large")
	ErrMalformed = errors.New("malformed upload")
)

// Parse reads the resume file and job description from r. The returned
// request is populated with whatever was present even when err is non-nil,
// so callers can keep the user's text. Missing inputs are reported by
// model.AnalysisRequest.Validate, not here.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.AnalysisRequest, error) {
	var req model.AnalysisRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		req.JobDescription = r.PostFormValue(FieldJobDescription)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return req, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, mbe.Limit)
		}
		return req, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	req.JobDescription = r.PostFormValue(FieldJobDescription)

	f, hdr, err := r.FormFile(FieldResume)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, nil
		}
		return req, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	req.ResumeName = hdr.Filename
	req.Resume = data
	return req, nil
}
