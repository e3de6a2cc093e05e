// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ProfilesHandler handles handle registration and listing.
type ProfilesHandler struct {
	deps Dependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps Dependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// profileRequest mirrors the POST /profiles body.
type profileRequest struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

func (p profileRequest) validate() error {
	switch {
	case strings.TrimSpace(p.Platform) == "":
		return errors.New("missing platform")
	case strings.TrimSpace(p.Handle) == "":
		return errors.New("missing handle")
	}
	return nil
}

// HandleProfiles dispatches on method:
//
//	POST   registers a handle after verifying it against the platform
//	GET    lists the conversation's registered handles
//	DELETE removes a previously registered handle
func (h *ProfilesHandler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRegister(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodDelete:
		h.handleRemove(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *ProfilesHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	reg, err := h.deps.RegisterHandle(r.Context(), conversationID(r), req.Platform, req.Handle)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if !reg.New {
		status = http.StatusOK
	}
	writeJSON(w, status, reg)
}

func (h *ProfilesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	handles, err := h.deps.Handles(r.Context(), conversationID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"handles": handles})
}

func (h *ProfilesHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.RemoveHandle(r.Context(), conversationID(r), req.Platform, req.Handle); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
