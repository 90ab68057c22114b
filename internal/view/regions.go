package view

import "github.com/okian/resumatch/internal/domain/state"

// Display texts.
const (
	LoadingText = "Analyzing... Please wait."
	ErrorPrefix = "Error: "
	SubmitLabel = "Analyze"
	BusyLabel   = "Analyzing..."
)

// Regions holds the page areas driven by the submission state. At most one
// of Status, Error and Results is set, since all three come from one State.
type Regions struct {
	Busy    bool
	Status  string
	Error   string
	Results *Panel
}

// NewRegions derives the display regions from s.
func NewRegions(s state.State) Regions {
	switch s.Phase() {
	case state.PhaseLoading:
		return Regions{Busy: true, Status: LoadingText}
	case state.PhaseFailed:
		msg, _ := s.Message()
		return Regions{Error: ErrorPrefix + msg}
	case state.PhaseSucceeded:
		res, _ := s.Result()
		p := NewPanel(res)
		return Regions{Results: &p}
	default:
		return Regions{}
	}
}

// ButtonLabel is the submit control's text.
func (r Regions) ButtonLabel() string {
	if r.Busy {
		return BusyLabel
	}
	return SubmitLabel
}
