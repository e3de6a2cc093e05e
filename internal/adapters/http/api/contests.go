// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// ContestsHandler handles upcoming-contest feed requests.
type ContestsHandler struct {
	deps Dependencies
}

// NewContestsHandler creates a new contests handler.
func NewContestsHandler(deps Dependencies) *ContestsHandler {
	return &ContestsHandler{deps: deps}
}

// HandleGetContests handles GET /contests requests. The feed needs no
// registered handles; it is independent of conversation state.
func (h *ContestsHandler) HandleGetContests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	entries, err := h.deps.UpcomingContests(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contests": entries})
}
