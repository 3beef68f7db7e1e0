package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	queue  []*PendingEvent
	sent   []string
	failed []string
	next   time.Time
}

func (f *fakeSource) Claim(ctx context.Context, workerID string) (*PendingEvent, error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	ev := f.queue[0]
	f.queue = f.queue[1:]
	return ev, nil
}

func (f *fakeSource) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeSource) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	f.failed = append(f.failed, id)
	f.next = next
	return nil
}

type fakeProducer struct {
	topics []string
	keys   []string
	err    error
}

func (f *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, key)
	return nil
}

func TestProcessOncePublishesAndAcks(t *testing.T) {
	src := &fakeSource{queue: []*PendingEvent{{
		ID:        "ev-1",
		Name:      "booking.confirmed",
		Payload:   []byte(`{}`),
		Aggregate: "bk-1",
	}}}
	prod := &fakeProducer{}
	w := &Worker{Source: src, Producer: prod, TopicPrefix: "stayhub."}

	require.NoError(t, w.processOnce(context.Background()))

	assert.Equal(t, []string{"stayhub.booking.confirmed"}, prod.topics)
	assert.Equal(t, []string{"bk-1"}, prod.keys)
	assert.Equal(t, []string{"ev-1"}, src.sent)
	assert.Empty(t, src.failed)
}

func TestProcessOnceSchedulesRetryOnPublishFailure(t *testing.T) {
	src := &fakeSource{queue: []*PendingEvent{{
		ID:       "ev-1",
		Name:     "booking.cancelled",
		Attempts: 1,
	}}}
	prod := &fakeProducer{err: errors.New("broker down")}
	w := &Worker{Source: src, Producer: prod, Backoff: []time.Duration{time.Second, 5 * time.Second}}

	before := time.Now().UTC()
	require.NoError(t, w.processOnce(context.Background()))

	assert.Empty(t, src.sent)
	assert.Equal(t, []string{"ev-1"}, src.failed)
	assert.True(t, src.next.After(before.Add(4*time.Second)), "second attempt uses the longer backoff")
}

func TestProcessOnceNoopWhenEmpty(t *testing.T) {
	src := &fakeSource{}
	w := &Worker{Source: src, Producer: &fakeProducer{}}
	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, src.sent)
}

func TestRunRequiresConfiguration(t *testing.T) {
	w := &Worker{}
	assert.ErrorIs(t, w.Run(context.Background()), ErrWorkerNotConfigured)
}
