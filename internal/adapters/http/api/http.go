// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/cpcoach/internal/adapters/platform"
	"github.com/okian/cpcoach/internal/adapters/session"
	service "github.com/okian/cpcoach/internal/app"
	"github.com/okian/cpcoach/internal/domain/model"
)

// conversationHeader carries the conversation id; requests without it fall
// into a shared default conversation.
const conversationHeader = "X-Conversation-ID"

const defaultConversationID = "default"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RegisterHandle(ctx context.Context, conversationID, platformName, handleID string) (RegisteredHandle, error)
	RemoveHandle(ctx context.Context, conversationID, platformName, handleID string) error
	Handles(ctx context.Context, conversationID string) ([]model.Handle, error)
	Roast(ctx context.Context, conversationID string) (RoastResult, error)
	Recommend(ctx context.Context, conversationID string, goal model.Goal) (RecommendResult, error)
	UpcomingContests(ctx context.Context) ([]model.ContestEntry, error)
}

// Read shapes mirror the service layer's response types.
type (
	RegisteredHandle = service.RegisteredHandle
	RoastResult      = service.RoastResult
	RecommendResult  = service.RecommendResult
)

// Server wires HTTP routes for the business API.
type Server struct {
	profilesHandler  *ProfilesHandler
	roastHandler     *RoastHandler
	recommendHandler *RecommendHandler
	contestsHandler  *ContestsHandler
	healthHandler    *HealthHandler
	bearerToken      string
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithBearerToken requires the token on every API request. Empty disables
// authentication.
func WithBearerToken(token string) ServerOption {
	return func(s *Server) {
		s.bearerToken = token
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		profilesHandler:  NewProfilesHandler(deps),
		roastHandler:     NewRoastHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		contestsHandler:  NewContestsHandler(deps),
		healthHandler:    NewHealthHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())

	mux.HandleFunc("/profiles", s.guarded(s.profilesHandler.HandleProfiles, "profiles"))
	mux.HandleFunc("/roast", s.guarded(s.roastHandler.HandleGetRoast, "roast"))
	mux.HandleFunc("/recommendations", s.guarded(s.recommendHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/contests", s.guarded(s.contestsHandler.HandleGetContests, "contests"))
}

// guarded stacks the standard middleware for business endpoints.
func (s *Server) guarded(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(AuthMiddleware(next, s.bearerToken)), endpoint)
}

// conversationID resolves the caller's conversation from headers.
func conversationID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(conversationHeader)); id != "" {
		return id
	}
	return defaultConversationID
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates typed service and domain errors to HTTP.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownPlatform),
		errors.Is(err, model.ErrEmptyHandle),
		errors.Is(err, model.ErrInvalidHandle),
		errors.Is(err, service.ErrUnsupportedPlatform):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, platform.ErrHandleNotFound),
		errors.Is(err, session.ErrUnknownHandle):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrNoHandles):
		writeError(w, http.StatusConflict, "no_handles", err)
	case errors.Is(err, platform.ErrUnavailable),
		errors.Is(err, service.ErrAllPlatformsFailed):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
