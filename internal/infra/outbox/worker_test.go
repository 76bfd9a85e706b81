package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	queue  []EventDocument
	sent   []string
	failed []struct {
		id      string
		retryAt time.Time
		reason  string
	}
}

func (s *fakeStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.queue) == 0 {
		return nil, nil
	}
	doc := s.queue[0]
	s.queue = s.queue[1:]
	return &doc, nil
}

func (s *fakeStore) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	s.failed = append(s.failed, struct {
		id      string
		retryAt time.Time
		reason  string
	}{id, retryAt, reason})
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	err  error
	sent []published
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic, key, payload, headers})
	return nil
}

func doc(id, name string) EventDocument {
	return EventDocument{
		ID:         id,
		Name:       name,
		Aggregate:  "bk-1",
		Payload:    []byte(`{"bookingId":"bk-1"}`),
		OccurredAt: time.Now(),
	}
}

func TestWorkerPublishesAndMarksSent(t *testing.T) {
	store := &fakeStore{queue: []EventDocument{doc("evt-1", "booking.created")}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "stayhub.", ID: "worker-1"}

	require.NoError(t, w.processOnce(context.Background()))

	require.Len(t, producer.sent, 1)
	msg := producer.sent[0]
	assert.Equal(t, "stayhub.bookings", msg.topic)
	assert.Equal(t, "bk-1", msg.key)
	assert.JSONEq(t, `{"bookingId":"bk-1"}`, string(msg.payload))
	assert.Equal(t, "application/json", msg.headers["content-type"])
	assert.Equal(t, "booking.created", msg.headers["event-name"])
	assert.Equal(t, "evt-1", msg.headers["event-id"])

	assert.Equal(t, []string{"evt-1"}, store.sent)
	assert.Empty(t, store.failed)
}

func TestWorkerTopicRouting(t *testing.T) {
	store := &fakeStore{queue: []EventDocument{
		doc("evt-1", "booking.created"),
		doc("evt-2", "booking.status"),
		doc("evt-3", "listing.archived"),
	}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	for i := 0; i < 3; i++ {
		require.NoError(t, w.processOnce(context.Background()))
	}

	require.Len(t, producer.sent, 3)
	assert.Equal(t, "bookings", producer.sent[0].topic)
	assert.Equal(t, "booking-status", producer.sent[1].topic)
	assert.Equal(t, "listing.archived", producer.sent[2].topic, "unknown names route by name")
}

func TestWorkerMarksFailedWithBackoff(t *testing.T) {
	failing := doc("evt-1", "booking.created")
	failing.Attempts = 1
	store := &fakeStore{queue: []EventDocument{failing}}
	producer := &fakeProducer{err: errors.New("broker down")}
	w := &Worker{
		Store:    store,
		Producer: producer,
		ID:       "worker-1",
		Backoff:  []time.Duration{time.Second, time.Minute, time.Hour},
	}

	before := time.Now()
	require.NoError(t, w.processOnce(context.Background()), "publish failure is retried, not fatal")

	assert.Empty(t, store.sent)
	require.Len(t, store.failed, 1)
	assert.Equal(t, "evt-1", store.failed[0].id)
	assert.Equal(t, "broker down", store.failed[0].reason)
	// Attempt 1 maps to the second backoff step.
	assert.WithinDuration(t, before.Add(time.Minute), store.failed[0].retryAt, 5*time.Second)
}

func TestWorkerBackoffSaturatesAtLastStep(t *testing.T) {
	exhausted := doc("evt-1", "booking.created")
	exhausted.Attempts = 9
	store := &fakeStore{queue: []EventDocument{exhausted}}
	w := &Worker{
		Store:    store,
		Producer: &fakeProducer{err: errors.New("broker down")},
		ID:       "worker-1",
		Backoff:  []time.Duration{time.Second, time.Minute},
	}

	before := time.Now()
	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, store.failed, 1)
	assert.WithinDuration(t, before.Add(time.Minute), store.failed[0].retryAt, 5*time.Second)
}

func TestWorkerIdlesOnEmptyQueue(t *testing.T) {
	store := &fakeStore{}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, producer.sent)
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	assert.ErrorIs(t, w.Run(context.Background()), ErrWorkerNotConfigured)
}
