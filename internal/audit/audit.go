package audit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaticano/paroquia-auth/internal/authz"
)

// Event is what the core emits about itself: logins, revocations, credential
// changes. Persistence of events belongs to whatever system sits behind the
// configured sink.
type Event struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Meta     map[string]any `json:"meta,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	EntityID string         `json:"entity_id,omitempty"`
	At       time.Time      `json:"at"`
}

// Sink delivers one event to an external system.
type Sink interface {
	Deliver(ctx context.Context, e Event) error
	Close() error
}

// Logger queues events on a bounded channel and delivers them from a single
// background worker. Enqueue never blocks: on a full queue the event is
// dropped and a local warning recorded. Sink failures are logged and
// discarded; they never reach the operation that emitted the event.
type Logger struct {
	sink  Sink
	log   *slog.Logger
	queue chan Event
	done  chan struct{}
	once  sync.Once
}

const defaultQueueSize = 256

func NewLogger(sink Sink, log *slog.Logger, queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	l := &Logger{
		sink:  sink,
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Log enqueues an audit event. The acting user id is taken from the request
// principal when one is present (bootstrap and login run without one).
func (l *Logger) Log(ctx context.Context, eventType, message string, meta map[string]any, entityID string) {
	e := Event{
		ID:       "audit_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Type:     eventType,
		Message:  message,
		Meta:     meta,
		UserID:   authz.CurrentUserID(ctx),
		EntityID: entityID,
		At:       time.Now(),
	}

	select {
	case l.queue <- e:
	default:
		l.log.Warn("audit queue full, event dropped", "type", eventType)
	}
}

func (l *Logger) run() {
	for e := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.sink.Deliver(ctx, e); err != nil {
			l.log.Error("audit delivery failed", "type", e.Type, "error", err)
		}
		cancel()
	}
	close(l.done)
}

// Close drains the queue, waits for the worker and closes the sink.
func (l *Logger) Close() error {
	l.once.Do(func() {
		close(l.queue)
	})
	<-l.done
	return l.sink.Close()
}
