package api

import (
	"net/http"

	"github.com/okian/resumatch/internal/domain/state"
)

// StateProvider exposes the current submission state.
type StateProvider interface {
	State() state.State
}

// StateHandler handles GET /api/state.
type StateHandler struct {
	provider StateProvider
}

// NewStateHandler creates a new state handler.
func NewStateHandler(p StateProvider) *StateHandler {
	return &StateHandler{provider: p}
}

// HandleState writes the current state as JSON.
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.provider.State())
}
