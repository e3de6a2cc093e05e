// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// RoastHandler handles roast requests.
type RoastHandler struct {
	deps Dependencies
}

// NewRoastHandler creates a new roast handler.
func NewRoastHandler(deps Dependencies) *RoastHandler {
	return &RoastHandler{deps: deps}
}

// HandleGetRoast handles GET /roast requests.
func (h *RoastHandler) HandleGetRoast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	result, err := h.deps.Roast(r.Context(), conversationID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
