package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "stayhub/internal/app/outbox"
	infraoutbox "stayhub/internal/infra/outbox"
)

type outboxEntry struct {
	record      appoutbox.EventRecord
	state       string
	attempts    int
	nextAttempt time.Time
}

// OutboxStore is the in-memory outbox used in memory persistence mode and in
// tests. It implements both the staging (Add) and draining (Claim/Mark*)
// halves.
type OutboxStore struct {
	mu      sync.Mutex
	entries map[string]*outboxEntry
	order   []string
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{entries: make(map[string]*outboxEntry)}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[record.ID] = &outboxEntry{record: record, state: "NEW", nextAttempt: time.Now().UTC()}
	s.order = append(s.order, record.ID)
	return nil
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.PendingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range s.order {
		e := s.entries[id]
		if (e.state == "NEW" || e.state == "FAILED") && !e.nextAttempt.After(now) {
			e.state = "CLAIMED"
			return &infraoutbox.PendingEvent{
				ID:         e.record.ID,
				Name:       e.record.Name,
				Payload:    e.record.Payload,
				Aggregate:  e.record.Aggregate,
				OccurredAt: e.record.OccurredAt,
				Attempts:   e.attempts,
			}, nil
		}
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.state = "SENT"
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.state = "FAILED"
		e.attempts++
		e.nextAttempt = next
	}
	return nil
}

// Pending lists staged-but-unsent event names; test helper.
func (s *OutboxStore) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, id := range s.order {
		if e := s.entries[id]; e.state != "SENT" {
			out = append(out, e.record.Name)
		}
	}
	return out
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Source = (*OutboxStore)(nil)
