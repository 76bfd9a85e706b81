package middleware

import (
	"context"
	"sync"

	"stayhub/internal/app/commands"
)

// SerializedCommand is implemented by commands whose availability checks and
// writes must not interleave with other commands touching the same listing.
type SerializedCommand interface {
	commands.Command
	SerializationKey() string
}

// LockKeyResolver derives a lock key for commands that cannot name it
// themselves (decision commands only carry a booking id). Returning an empty
// key skips serialization.
type LockKeyResolver func(ctx context.Context, cmd commands.Command) (string, error)

// KeyedMutex hands out one mutex per key. Entries are never evicted; the key
// space is bounded by the number of listings a process touches.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// Serialization takes the per-listing lock around the whole downstream chain,
// so the conflict check, the write it guards, and the commit run as one
// critical section. It must sit outside the Transaction middleware.
func Serialization(locks *KeyedMutex, resolve LockKeyResolver) CommandMiddleware {
	if locks == nil {
		panic("middleware: keyed mutex required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			key := ""
			if serial, ok := cmd.(SerializedCommand); ok {
				key = serial.SerializationKey()
			}
			if key == "" && resolve != nil {
				resolved, err := resolve(ctx, cmd)
				if err != nil {
					return nil, err
				}
				key = resolved
			}
			if key == "" {
				return nextFn(ctx, cmd)
			}
			unlock := locks.Lock(key)
			defer unlock()
			return nextFn(ctx, cmd)
		})
	}
}
