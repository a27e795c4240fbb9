// Package transport exposes the relay over websocket connections.
// It upgrades inbound HTTP requests, pumps frames in both directions,
// and hands each session its send capability.
package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/moderation"
	"chat-relay/runtime"
)

// Handler serves GET /chat/{room}, binding every accepted connection to
// a fresh session in the named room.
type Handler struct {
	log       *slog.Logger
	registry  *runtime.Registry
	jokes     contract.JokeProvider
	moderator *moderation.Moderator
	upgrader  websocket.Upgrader

	sendBufferSize int
	inboxSize      int
	jokeTimeout    time.Duration
}

func NewHandler(log *slog.Logger, registry *runtime.Registry,
	jokes contract.JokeProvider, moderator *moderation.Moderator,
	allowedOrigins []string, sendBufferSize, inboxSize int,
	jokeTimeout time.Duration) *Handler {
	return &Handler{
		log:       log,
		registry:  registry,
		jokes:     jokes,
		moderator: moderator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		sendBufferSize: sendBufferSize,
		inboxSize:      inboxSize,
		jokeTimeout:    jokeTimeout,
	}
}

// originChecker allows every origin when no allow-list is configured
// (local development) and exact matches otherwise.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		return lo.Contains(allowed, r.Header.Get("Origin"))
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomName := r.PathValue("room")
	if roomName == "" {
		http.Error(w, "room name required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	cl := newClient(h.log, conn, h.sendBufferSize)
	room := h.registry.GetOrCreate(roomName)
	session := runtime.NewSession(h.log, room, cl, h.jokes, h.moderator,
		h.jokeTimeout, h.inboxSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() { _ = session.Run(ctx) }()
	go cl.writePump()

	h.readPump(conn, cl, session)
}

// readPump feeds inbound frames to the session until the connection
// dies. Protocol errors are answered with a note and the connection
// stays open; the session state is untouched by a bad message.
func (h *Handler) readPump(conn *websocket.Conn, cl *client, session *runtime.Session) {
	defer func() {
		session.Close()
		cl.close()
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				h.log.Warn("Unexpected websocket close", "error", err)
			}
			return
		}

		if err := session.HandleInbound(raw); err != nil {
			h.log.Warn("Rejected inbound message",
				"session_id", session.ID(), "error", err)
			session.Deliver(domain.NewNote(err.Error()))
		}
	}
}
