package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/planloom/minutes/pkg/handlers"
	"github.com/planloom/minutes/pkg/pagination"
	"github.com/planloom/minutes/pkg/routes"
)

// Handler provides HTTP endpoints for reconciliation sessions.
type Handler struct {
	manager    *Manager
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given manager, logger, and pagination config.
func NewHandler(manager *Manager, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		manager:    manager,
		logger:     logger.With("handler", "reconcile"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for reconciliation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reconcile",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/{meetingID}", Handler: h.Open},
			{Method: "GET", Pattern: "/{meetingID}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{meetingID}", Handler: h.Discard},
			{Method: "PUT", Pattern: "/{meetingID}/conflicts/{itemID}/decision", Handler: h.SetDecision},
			{Method: "PUT", Pattern: "/{meetingID}/conflicts/{itemID}/merged-text", Handler: h.SetMergedText},
			{Method: "POST", Pattern: "/{meetingID}/defaults", Handler: h.AcceptDefaults},
			{Method: "POST", Pattern: "/{meetingID}/apply", Handler: h.Apply},
		},
	}
}

type decisionRequest struct {
	Decision Decision `json:"decision"`
}

type mergedTextRequest struct {
	Text string `json:"text"`
}

type defaultsResponse struct {
	Applied int         `json:"applied"`
	Session SessionView `json:"session"`
}

// List returns a paginated list of live session snapshots.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	handlers.RespondJSON(w, http.StatusOK, h.manager.List(page))
}

// Open creates (or returns) the session for a meeting, running the
// readiness poll and classification fetch on first open.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	session, err := h.manager.Open(r.Context(), meetingID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, session.Snapshot())
}

// Find returns the current snapshot for a live session.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// Discard tears down a session when the user navigates away.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	if err := h.manager.Discard(meetingID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetDecision records the decision for one conflicting item.
func (h *Handler) SetDecision(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidDecision)
		return
	}

	if err := session.SetDecision(r.PathValue("itemID"), req.Decision); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// SetMergedText records merge text for one conflicting item.
func (h *Handler) SetMergedText(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req mergedTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid merged-text payload"))
		return
	}

	if err := session.SetMergedText(r.PathValue("itemID"), req.Text); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// AcceptDefaults applies AI-suggested decisions to all unresolved conflicts.
func (h *Handler) AcceptDefaults(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	applied, err := session.AcceptDefaults()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, defaultsResponse{
		Applied: applied,
		Session: session.Snapshot(),
	})
}

// Apply commits the full decision set for the meeting exactly once, then
// discards the session.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	outcome, err := session.Apply(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	// Best effort: the session served its purpose once applied.
	if err := h.manager.Discard(session.MeetingID()); err != nil && !errors.Is(err, ErrSessionNotFound) {
		h.logger.Warn("session discard after apply failed", "error", err)
	}

	handlers.RespondJSON(w, http.StatusOK, outcome)
}

func (h *Handler) meetingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("meetingID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid meeting id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	meetingID, ok := h.meetingID(w, r)
	if !ok {
		return nil, false
	}

	session, err := h.manager.Get(meetingID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return session, true
}
