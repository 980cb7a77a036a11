package live

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sessionhandler "github.com/joonhok/docuguide/backend/internal/handler/session"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
	"github.com/joonhok/docuguide/backend/pkg/utils"
)

// Handler drives a chat session over a websocket: the client sends
// questions, the server pushes a fresh session view on every state change.
// The single-in-flight policy is the controller's; a question sent while an
// answer is pending comes back as an error frame and is not queued.
type Handler struct {
	sessions *sessionservice.Registry
	resolver *citationservice.Resolver
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates the live chat handler.
func New(sessions *sessionservice.Registry, resolver *citationservice.Resolver, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		resolver: resolver,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/ws", h.handleSocket)
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type outboundFrame struct {
	Type  string               `json:"type"`
	Data  *sessionhandler.View `json:"data,omitempty"`
	Error string               `json:"error,omitempty"`
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// gorilla allows one concurrent writer; state pushes and error frames
	// share the connection.
	var writeMu sync.Mutex
	writeFrame := func(frame outboundFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(frame)
	}

	changes, unwatch := sess.Watch()
	defer unwatch()

	go h.pushLoop(ctx, sess, changes, writeFrame)

	view := sessionhandler.BuildView(sess, h.resolver)
	if err := writeFrame(outboundFrame{Type: "state", Data: &view}); err != nil {
		return
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket closed", zap.String("session", sess.ID), zap.Error(err))
			}
			return
		}

		switch frame.Type {
		case "question":
			// Submit blocks for the whole turn; run it off the read loop
			// so close frames are still seen. Turn outcomes arrive as
			// state pushes.
			go func(text string) {
				err := sess.Submit(ctx, text)
				switch {
				case errors.Is(err, sessionservice.ErrEmptyQuestion),
					errors.Is(err, sessionservice.ErrBusy),
					errors.Is(err, sessionservice.ErrClosed):
					_ = writeFrame(outboundFrame{Type: "error", Error: err.Error()})
				}
			}(frame.Text)
		default:
			_ = writeFrame(outboundFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}

func (h *Handler) pushLoop(ctx context.Context, sess *sessionservice.Session, changes <-chan struct{}, writeFrame func(outboundFrame) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if sess.Closed() {
				_ = writeFrame(outboundFrame{Type: "closed"})
				return
			}
			view := sessionhandler.BuildView(sess, h.resolver)
			if err := writeFrame(outboundFrame{Type: "state", Data: &view}); err != nil {
				return
			}
		}
	}
}
