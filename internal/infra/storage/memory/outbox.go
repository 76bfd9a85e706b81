package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "stayhub/internal/app/outbox"
	infraoutbox "stayhub/internal/infra/outbox"
)

// OutboxStore keeps outbox entries in memory. Add stages records inside the
// logical transaction; Flush makes them visible to the worker, mirroring the
// commit point of the durable store.
type OutboxStore struct {
	mu      sync.Mutex
	staged  []infraoutbox.EventDocument
	ready   []*entry
	claimed map[string]*entry
}

type entry struct {
	doc         infraoutbox.EventDocument
	nextAttempt time.Time
	lastError   string
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{claimed: make(map[string]*entry)}
}

func (o *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Aggregate:  record.Aggregate,
		Payload:    record.Payload,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
	})
	return nil
}

func (o *OutboxStore) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.staged {
		o.ready = append(o.ready, &entry{doc: o.staged[i]})
	}
	o.staged = nil
	return nil
}

func (o *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for i, e := range o.ready {
		if e.nextAttempt.After(now) {
			continue
		}
		o.ready = append(o.ready[:i], o.ready[i+1:]...)
		o.claimed[e.doc.ID] = e
		doc := e.doc
		return &doc, nil
	}
	return nil, nil
}

func (o *OutboxStore) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.claimed, id)
	return nil
}

func (o *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.claimed[id]
	if !ok {
		return nil
	}
	delete(o.claimed, id)
	e.doc.Attempts++
	e.nextAttempt = retryAt
	e.lastError = reason
	o.ready = append(o.ready, e)
	return nil
}

// Pending reports staged plus undelivered entries, for tests.
func (o *OutboxStore) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.staged) + len(o.ready) + len(o.claimed)
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Store = (*OutboxStore)(nil)
