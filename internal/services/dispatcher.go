package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// NotificationEvent is what the orchestrator hands off after a transition
// commits. Delivery happens outside the transition's transactional boundary.
type NotificationEvent struct {
	UserID  uuid.UUID
	Type    models.NotificationType
	Title   string
	Message string
	Link    string
}

// Notifier accepts notification events for asynchronous fan-out.
type Notifier interface {
	Notify(event NotificationEvent)
}

// Dispatcher drains the event queue with a small worker pool: persist the
// durable record first, then push to connected sessions. Store failures are
// retried with backoff and dead-letter logged after the attempt limit; push
// failures are swallowed.
type Dispatcher struct {
	repo        repositories.NotificationRepository
	emitter     RealtimeEmitter
	logger      *zap.Logger
	queue       chan NotificationEvent
	concurrency int
	maxAttempts int
	retryDelay  time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewDispatcher(
	repo repositories.NotificationRepository,
	emitter RealtimeEmitter,
	logger *zap.Logger,
	concurrency int,
	maxAttempts int,
	retryDelay time.Duration,
) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Dispatcher{
		repo:        repo,
		emitter:     emitter,
		logger:      logger,
		queue:       make(chan NotificationEvent, 256),
		concurrency: concurrency,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		stopChan:    make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		go d.processEvents(i + 1)
	}
	d.logger.Info("notification dispatcher started", zap.Int("concurrency", d.concurrency))
}

// Stop drains nothing; events still queued when Stop is called are lost from
// the push path but transitions never depended on them.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(event NotificationEvent) {
	select {
	case d.queue <- event:
	case <-d.stopChan:
		d.logger.Warn("dispatcher stopped, dropping notification",
			zap.String("user_id", event.UserID.String()),
			zap.String("type", string(event.Type)),
		)
	}
}

func (d *Dispatcher) processEvents(workerID int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			return
		case event := <-d.queue:
			d.deliver(workerID, event)
		}
	}
}

func (d *Dispatcher) deliver(workerID int, event NotificationEvent) {
	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    event.UserID,
		Type:      event.Type,
		Title:     event.Title,
		Message:   event.Message,
		Link:      event.Link,
		CreatedAt: time.Now(),
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		lastErr = d.repo.Create(notification)
		if lastErr == nil {
			break
		}
		d.logger.Warn("failed to persist notification, retrying",
			zap.Int("worker", workerID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		select {
		case <-d.stopChan:
			return
		case <-time.After(d.retryDelay):
		}
	}

	if lastErr != nil {
		// Dead letter: the durable write never landed, keep the full event
		// in the log for manual replay.
		d.logger.Error("notification dead-lettered",
			zap.String("user_id", event.UserID.String()),
			zap.String("type", string(event.Type)),
			zap.String("title", event.Title),
			zap.String("message", event.Message),
			zap.String("link", event.Link),
			zap.Error(lastErr),
		)
		return
	}

	if err := d.emitter.EmitToUser(event.UserID, string(event.Type), notification); err != nil {
		d.logger.Debug("realtime push skipped",
			zap.String("user_id", event.UserID.String()),
			zap.Error(err),
		)
	}
}
