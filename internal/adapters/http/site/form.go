package site

import (
	"sync"

	"github.com/okian/resumatch/internal/domain/model"
)

// Form keeps the job description the user typed so it survives a failed
// attempt. The file input cannot be re-populated by a server.
type Form struct {
	mu    sync.RWMutex
	draft string
}

// Draft returns the last job description submitted.
func (f *Form) Draft() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.draft
}

// SetDraft stores the job description text.
func (f *Form) SetDraft(text string) {
	f.mu.Lock()
	f.draft = text
	f.mu.Unlock()
}

// Submit validates req and, only when valid, calls onSubmit exactly once.
// The draft is never cleared.
func (f *Form) Submit(req model.AnalysisRequest, onSubmit func(model.AnalysisRequest)) error {
	if err := req.Validate(); err != nil {
		return err
	}
	onSubmit(req)
	return nil
}
