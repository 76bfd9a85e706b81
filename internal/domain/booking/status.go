package booking

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("booking: unknown status")

// Status is the lifecycle state of a booking. Values are the wire form used
// in events and API responses.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// validTransitions is the whole state machine: pending fans out to every
// decision, an accepted booking may still be cancelled, rejected and
// cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

func (s Status) String() string { return string(s) }

func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
	}
	return status, nil
}
