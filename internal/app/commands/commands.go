package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrHandlerNotFound = errors.New("commands: no handler registered")

// Command is a request to change state. Key identifies the handler.
type Command interface {
	Key() string
}

// Handler executes one command type.
type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Bus routes commands to their handlers. Middleware wraps this interface.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

type handlerFunc func(ctx context.Context, cmd Command) (any, error)

type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]handlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]handlerFunc)}
}

// RegisterHandler binds a typed handler to a command key. Registering the same
// key twice panics; wiring happens once at startup.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, handler Handler[C, R]) {
	if handler == nil {
		panic("commands: nil handler for " + key)
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, exists := bus.handlers[key]; exists {
		panic("commands: duplicate handler for " + key)
	}
	bus.handlers[key] = func(ctx context.Context, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("commands: %s expects %T, got %T", key, *new(C), cmd)
		}
		return handler.Handle(ctx, typed)
	}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	b.mu.RLock()
	fn, ok := b.handlers[cmd.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return fn(ctx, cmd)
}

// Dispatch sends a command through the bus and asserts the result type.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var zero R
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("commands: %s returned %T, expected %T", cmd.Key(), res, zero)
	}
	return typed, nil
}
