package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel kinds for analyzer errors.
var (
	ErrTransport = errors.New("analysis request failed")
	ErrDecode    = errors.New("analysis response malformed")
)

// StatusError is returned for a non-2xx response. Its Error text is the
// message shown to the user: the service's detail when it sent one,
// otherwise "API Error: <code> <status text>".
type StatusError struct {
	StatusCode int
	StatusText string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.StatusText)
}
