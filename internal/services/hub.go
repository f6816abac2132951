package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RealtimeEmitter pushes events to currently connected sessions of a user.
// Delivery is best effort; the durable notification store is the source of
// truth.
type RealtimeEmitter interface {
	EmitToUser(userID uuid.UUID, event string, payload interface{}) error
}

// wsConn is the slice of *websocket.Conn the hub needs. Tests substitute it.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const textMessage = 1

type realtimeEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub is the per-user connection registry. It is constructed at startup,
// injected where needed, and shut down explicitly; there is no package-level
// instance.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]wsConn
	logger   *zap.Logger
	closed   bool
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID][]wsConn),
		logger:   logger,
	}
}

// Register adds a connection for the user and returns an unregister func
// the websocket handler defers.
func (h *Hub) Register(userID uuid.UUID, conn wsConn) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		conn.Close()
		return func() {}
	}

	h.sessions[userID] = append(h.sessions[userID], conn)
	h.logger.Debug("websocket session registered", zap.String("user_id", userID.String()))

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		conns := h.sessions[userID]
		for i, c := range conns {
			if c == conn {
				h.sessions[userID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.sessions[userID]) == 0 {
			delete(h.sessions, userID)
		}
	}
}

// EmitToUser implements RealtimeEmitter. Write failures on individual
// sessions are logged and swallowed.
func (h *Hub) EmitToUser(userID uuid.UUID, event string, payload interface{}) error {
	data, err := json.Marshal(realtimeEnvelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal realtime payload: %w", err)
	}

	h.mu.RLock()
	conns := append([]wsConn(nil), h.sessions[userID]...)
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(textMessage, data); err != nil {
			h.logger.Debug("realtime push failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Shutdown closes every session and refuses further registrations.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, conns := range h.sessions {
		for _, conn := range conns {
			conn.Close()
		}
		delete(h.sessions, userID)
	}
}
