package model

import "errors"

// Validation errors returned by AnalysisRequest.Validate.
var (
	ErrMissingResume         = errors.New("resume file not selected")
	ErrMissingJobDescription = errors.New("job description is empty")
)

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingResume) || errors.Is(err, ErrMissingJobDescription)
}

// Notice returns the message shown to the user for a validation error,
// or the empty string when err is not a validation error.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrMissingResume):
		return "Please select a resume file."
	case errors.Is(err, ErrMissingJobDescription):
		return "Please paste the job description."
	default:
		return ""
	}
}

// Reason returns a short machine-readable code for a validation error, used
// as a metrics label and in API error bodies. Other errors map to "other".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingResume):
		return "missing_resume"
	case errors.Is(err, ErrMissingJobDescription):
		return "missing_job_description"
	default:
		return "other"
	}
}
