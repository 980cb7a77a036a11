package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
	"github.com/joonhok/docuguide/backend/pkg/utils"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// Handler exposes the chat session surface over HTTP.
type Handler struct {
	sessions *sessionservice.Registry
	resolver *citationservice.Resolver
	log      *zap.Logger
}

// New creates the session handler.
func New(sessions *sessionservice.Registry, resolver *citationservice.Resolver, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, resolver: resolver, log: log}
}

// RegisterRoutes registers session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}", h.handleSnapshot)
	r.Post("/sessions/{sessionID}/messages", h.handleSubmit)
	r.Delete("/sessions/{sessionID}", h.handleDelete)
	r.Get("/sessions/{sessionID}/events", h.handleEvents)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, BuildView(sess, h.resolver))
}

// handleSubmit runs one turn. A gateway failure still answers 200: the turn
// outcome, including the error text, lives in the returned session view.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := sess.Submit(r.Context(), payload.Text)
	switch {
	case errors.Is(err, sessionservice.ErrEmptyQuestion):
		utils.RespondError(w, http.StatusBadRequest, "question text is required")
		return
	case errors.Is(err, sessionservice.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "an answer is already in flight")
		return
	case errors.Is(err, sessionservice.ErrClosed):
		utils.RespondError(w, http.StatusGone, "session is closed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, BuildView(sess, h.resolver))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams session views over SSE so the UI can re-render on
// every state change without polling.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	changes, cancel := sess.Watch()
	defer cancel()

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "state", BuildView(sess, h.resolver))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if sess.Closed() {
				utils.SendSSEEvent(w, flusher, "closed", map[string]string{"sessionId": sess.ID})
				return
			}
			utils.SendSSEEvent(w, flusher, "state", BuildView(sess, h.resolver))
		case <-heartbeat.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{"time": time.Now().UTC().Format(time.RFC3339)})
		}
	}
}
