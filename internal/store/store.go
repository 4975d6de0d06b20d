package store

import (
	"context"
	"errors"
)

// Slot keys. The engine persists its whole state in these five slots; no other
// keys are written.
const (
	KeyAdmin   = "admin"
	KeyEvents  = "events"
	KeyTickets = "tickets"
	KeyRoster  = "roster"
	KeyCounter = "counter"
)

// ErrKeyNotFound is returned by Get when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistent key-value collaborator the engine runs against.
// Get must return ErrKeyNotFound for absent keys. SetMulti must apply every
// write or none: the engine buffers all writes of one operation and commits
// them through a single SetMulti call.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMulti(ctx context.Context, writes map[string][]byte) error
}
