package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker requires a source and a producer")

// PendingEvent is a claimed outbox record awaiting publication.
type PendingEvent struct {
	ID         string
	Name       string
	Payload    []byte
	Aggregate  string
	OccurredAt time.Time
	Attempts   int
}

// Source is the claim/ack half of an outbox store.
type Source interface {
	Claim(ctx context.Context, workerID string) (*PendingEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker drains staged booking events to the broker. Delivery is at-least-
// once and strictly after the booking transaction committed, so a broker
// outage can delay notifications but never roll a booking back.
type Worker struct {
	Source      Source
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	TopicPrefix string
	ID          string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Source == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) processOnce(ctx context.Context) error {
	ev, err := w.Source.Claim(ctx, w.workerID())
	if err != nil || ev == nil {
		return err
	}
	headers := map[string]string{
		"event_name":  ev.Name,
		"occurred_at": ev.OccurredAt.UTC().Format(time.RFC3339),
	}
	if err := w.Producer.Publish(ctx, w.topicFor(ev.Name), ev.Aggregate, ev.Payload, headers); err != nil {
		w.logger().Warn("outbox publish failed", "event", ev.Name, "id", ev.ID, "error", err)
		return w.Source.MarkFailed(ctx, ev.ID, time.Now().UTC().Add(w.nextRetry(ev.Attempts)), err.Error())
	}
	return w.Source.MarkSent(ctx, ev.ID)
}

func (w *Worker) topicFor(eventName string) string {
	return w.TopicPrefix + eventName
}

func (w *Worker) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return 500 * time.Millisecond
}

func (w *Worker) workerID() string {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return w.ID
}

func (w *Worker) nextRetry(attempts int) time.Duration {
	if len(w.Backoff) == 0 {
		return time.Second
	}
	if attempts >= len(w.Backoff) {
		return w.Backoff[len(w.Backoff)-1]
	}
	return w.Backoff[attempts]
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
