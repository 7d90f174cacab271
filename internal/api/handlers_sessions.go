package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/metrics"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
)

// SessionHandler handles session-related HTTP requests.
type SessionHandler struct {
	repo    *sessions.Repository
	metrics *metrics.Metrics
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(repo *sessions.Repository, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{repo: repo, metrics: m}
}

// List handles GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.ListSessions(r.Context())
	if err != nil {
		writeDomainError(w, h.metrics, "list sessions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": all,
	})
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	sess, err := h.repo.CreateSession(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, h.metrics, "create session", err)
		return
	}

	h.metrics.Mutation("create_session")
	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.repo.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.metrics, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Delete handles DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.metrics, "delete session", err)
		return
	}
	h.metrics.Mutation("delete_session")
	w.WriteHeader(http.StatusNoContent)
}

// Current handles GET /sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := h.repo.CurrentSession(r.Context())
	if err != nil {
		writeDomainError(w, h.metrics, "current session", err)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "no current session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Select handles PUT /sessions/current
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req models.SelectSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.repo.SelectSession(r.Context(), req.ID); err != nil {
		writeDomainError(w, h.metrics, "select session", err)
		return
	}
	h.Current(w, r)
}

// ClearCurrent handles DELETE /sessions/current
func (h *SessionHandler) ClearCurrent(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.ClearCurrentSession(r.Context()); err != nil {
		writeDomainError(w, h.metrics, "clear current session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
