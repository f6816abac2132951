package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubConn struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *stubConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubConn) messageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestHubEmitsToRegisteredSessions(t *testing.T) {
	h := NewHub(zap.NewNop())
	userID := uuid.New()
	conn1 := &stubConn{}
	conn2 := &stubConn{}
	h.Register(userID, conn1)
	h.Register(userID, conn2)

	if err := h.EmitToUser(userID, "offer_made", map[string]string{"title": "Engineer"}); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if conn1.messageCount() != 1 || conn2.messageCount() != 1 {
		t.Fatal("expected every session of the user to receive the event")
	}

	var envelope realtimeEnvelope
	if err := json.Unmarshal(conn1.messages[0], &envelope); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if envelope.Event != "offer_made" {
		t.Fatalf("unexpected event name %q", envelope.Event)
	}
}

func TestHubEmitSkipsOtherUsers(t *testing.T) {
	h := NewHub(zap.NewNop())
	target := uuid.New()
	bystander := &stubConn{}
	h.Register(uuid.New(), bystander)

	if err := h.EmitToUser(target, "challenge_sent", nil); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if bystander.messageCount() != 0 {
		t.Fatal("event leaked to another user's session")
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	h := NewHub(zap.NewNop())
	userID := uuid.New()
	conn := &stubConn{}
	unregister := h.Register(userID, conn)
	unregister()

	if err := h.EmitToUser(userID, "offer_made", nil); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if conn.messageCount() != 0 {
		t.Fatal("unregistered session still received events")
	}
}

func TestHubWriteFailureIsSwallowed(t *testing.T) {
	h := NewHub(zap.NewNop())
	userID := uuid.New()
	broken := &stubConn{writeErr: fmt.Errorf("connection reset")}
	healthy := &stubConn{}
	h.Register(userID, broken)
	h.Register(userID, healthy)

	if err := h.EmitToUser(userID, "offer_made", nil); err != nil {
		t.Fatalf("expected write failure swallowed, got %v", err)
	}
	if healthy.messageCount() != 1 {
		t.Fatal("healthy session should still receive the event")
	}
}

func TestHubShutdownClosesSessions(t *testing.T) {
	h := NewHub(zap.NewNop())
	userID := uuid.New()
	conn := &stubConn{}
	h.Register(userID, conn)

	h.Shutdown()

	if !conn.closed {
		t.Fatal("expected session closed on shutdown")
	}

	late := &stubConn{}
	h.Register(uuid.New(), late)
	if !late.closed {
		t.Fatal("expected registrations after shutdown to be refused")
	}
}
