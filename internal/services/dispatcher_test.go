package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
	failuresLeft  int
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failuresLeft > 0 {
		r.failuresLeft--
		return fmt.Errorf("store unavailable")
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) FindByID(id uuid.UUID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := n
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (r *fakeNotificationRepo) ListByUser(userID uuid.UUID) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(id uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

type recordingEmitter struct {
	mu     sync.Mutex
	emits  []uuid.UUID
	err    error
	signal chan struct{}
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{signal: make(chan struct{}, 16)}
}

func (e *recordingEmitter) EmitToUser(userID uuid.UUID, event string, payload interface{}) error {
	e.mu.Lock()
	e.emits = append(e.emits, userID)
	e.mu.Unlock()
	e.signal <- struct{}{}
	return e.err
}

func (e *recordingEmitter) waitForEmit(t *testing.T) {
	t.Helper()
	select {
	case <-e.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for realtime emit")
	}
}

func TestDispatcherPersistsThenPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	emitter := newRecordingEmitter()
	d := NewDispatcher(repo, emitter, zap.NewNop(), 1, 3, time.Millisecond)
	d.Start()
	defer d.Stop()

	userID := uuid.New()
	d.Notify(NotificationEvent{
		UserID:  userID,
		Type:    models.NotifyApplicationReceived,
		Title:   "New application",
		Message: "someone applied",
	})

	emitter.waitForEmit(t)

	// The durable record landed before the push fired.
	if repo.count() != 1 {
		t.Fatalf("expected one persisted notification, got %d", repo.count())
	}
	stored, _ := repo.ListByUser(userID)
	if len(stored) != 1 || stored[0].Type != models.NotifyApplicationReceived {
		t.Fatalf("unexpected stored notification: %+v", stored)
	}
}

func TestDispatcherRetriesStoreFailures(t *testing.T) {
	repo := &fakeNotificationRepo{failuresLeft: 2}
	emitter := newRecordingEmitter()
	d := NewDispatcher(repo, emitter, zap.NewNop(), 1, 3, time.Millisecond)
	d.Start()
	defer d.Stop()

	d.Notify(NotificationEvent{UserID: uuid.New(), Type: models.NotifyOfferMade})

	emitter.waitForEmit(t)

	if repo.count() != 1 {
		t.Fatalf("expected notification persisted after retries, got %d", repo.count())
	}
}

func TestDispatcherDeadLettersAfterAttemptLimit(t *testing.T) {
	repo := &fakeNotificationRepo{failuresLeft: 10}
	emitter := newRecordingEmitter()
	d := NewDispatcher(repo, emitter, zap.NewNop(), 1, 2, time.Millisecond)
	d.Start()

	d.Notify(NotificationEvent{UserID: uuid.New(), Type: models.NotifyOfferMade})

	// Give the worker time to exhaust both attempts.
	time.Sleep(50 * time.Millisecond)
	d.Stop()

	if repo.count() != 0 {
		t.Fatalf("expected nothing persisted, got %d", repo.count())
	}
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if len(emitter.emits) != 0 {
		t.Fatal("dead-lettered event must not be pushed")
	}
}

func TestDispatcherPushFailureIsSwallowed(t *testing.T) {
	repo := &fakeNotificationRepo{}
	emitter := newRecordingEmitter()
	emitter.err = fmt.Errorf("no sessions")
	d := NewDispatcher(repo, emitter, zap.NewNop(), 1, 3, time.Millisecond)
	d.Start()
	defer d.Stop()

	d.Notify(NotificationEvent{UserID: uuid.New(), Type: models.NotifyInterviewScheduled})

	emitter.waitForEmit(t)

	if repo.count() != 1 {
		t.Fatalf("expected persisted notification despite push failure, got %d", repo.count())
	}
}

func TestDispatcherStopDropsNewEvents(t *testing.T) {
	repo := &fakeNotificationRepo{}
	emitter := newRecordingEmitter()
	d := NewDispatcher(repo, emitter, zap.NewNop(), 1, 1, time.Millisecond)
	d.Start()
	d.Stop()

	// Must not block or panic after shutdown.
	d.Notify(NotificationEvent{UserID: uuid.New(), Type: models.NotifyOfferMade})
	d.Stop()
}
