package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/domain/shared/events"
)

// EventRecord is the persisted form of a domain event awaiting delivery.
type EventRecord struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox buffers event records inside the current transaction boundary.
// Flush is called by middleware after the handler commits.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type EventEncoder interface {
	Encode(event events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:         uuid.NewString(),
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		Payload:    payload,
		OccurredAt: event.OccurredAt().UTC(),
	}, nil
}

// RecordDomainEvents encodes and stores a batch of drained aggregate events.
func RecordDomainEvents(ctx context.Context, box Outbox, enc EventEncoder, evts []events.DomainEvent) error {
	for _, event := range evts {
		record, err := enc.Encode(event)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
