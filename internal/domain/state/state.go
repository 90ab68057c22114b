// Package state holds the submission lifecycle as a single tagged value.
package state

import (
	"encoding/json"

	"github.com/okian/resumatch/internal/domain/model"
)

// Phase tags which variant a State holds.
type Phase int

// Submission phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFailed
	PhaseSucceeded
)

// String returns the lower-case phase name used in logs and JSON.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// State is one of Idle, Loading, Failed(message) or Succeeded(result).
// Fields are unexported so a value can only be built through the
// constructors below, which never populate more than one payload.
// The zero value is Idle.
type State struct {
	phase   Phase
	message string
	result  model.AnalysisResult
}

// Idle is the state before the first submission.
func Idle() State { return State{phase: PhaseIdle} }

// Loading marks a request in flight. It carries neither error nor result.
func Loading() State { return State{phase: PhaseLoading} }

// Failed is a terminal state holding the message shown to the user.
func Failed(message string) State { return State{phase: PhaseFailed, message: message} }

// Succeeded is a terminal state holding the analysis result.
func Succeeded(result model.AnalysisResult) State {
	return State{phase: PhaseSucceeded, result: result}
}

// Phase returns the active variant.
func (s State) Phase() Phase { return s.phase }

// Busy reports whether a request is in flight.
func (s State) Busy() bool { return s.phase == PhaseLoading }

// Message returns the error message when s is Failed.
func (s State) Message() (string, bool) {
	if s.phase != PhaseFailed {
		return "", false
	}
	return s.message, true
}

// Result returns the analysis result when s is Succeeded.
func (s State) Result() (model.AnalysisResult, bool) {
	if s.phase != PhaseSucceeded {
		return model.AnalysisResult{}, false
	}
	return s.result, true
}

type stateJSON struct {
	Phase  string                `json:"phase"`
	Error  string                `json:"error,omitempty"`
	Result *model.AnalysisResult `json:"result,omitempty"`
}

// MarshalJSON encodes the state as {"phase": ..., "error"|"result": ...}.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{Phase: s.phase.String()}
	if msg, ok := s.Message(); ok {
		out.Error = msg
	}
	if res, ok := s.Result(); ok {
		out.Result = &res
	}
	return json.Marshal(out)
}
