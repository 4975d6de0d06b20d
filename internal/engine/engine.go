// Package engine implements the event/ticket state-transition core: the admin
// registry and authorization gate, the event lifecycle, and the ticket
// lifecycle. All state lives in five store slots (admin, events, tickets,
// roster, counter); every exported operation reads what it needs, validates,
// and commits all its writes in a single atomic batch, so a failed operation
// leaves the store exactly as it found it.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eventx/internal/clock"
	"eventx/internal/models"
	"eventx/internal/store"
)

type Engine struct {
	store store.Store
	clock clock.Clock
}

func New(st store.Store, clk clock.Clock) *Engine {
	return &Engine{store: st, clock: clk}
}

// tx buffers one operation's reads and writes over the store. Reads see
// earlier buffered writes; nothing reaches the store until commit, which
// hands every dirty slot to SetMulti at once.
type tx struct {
	ctx    context.Context
	store  store.Store
	reads  map[string][]byte
	writes map[string][]byte
}

func (e *Engine) begin(ctx context.Context) *tx {
	return &tx{
		ctx:    ctx,
		store:  e.store,
		reads:  make(map[string][]byte),
		writes: make(map[string][]byte),
	}
}

func (t *tx) get(key string) ([]byte, error) {
	if val, ok := t.writes[key]; ok {
		return val, nil
	}
	if val, ok := t.reads[key]; ok {
		return val, nil
	}
	val, err := t.store.Get(t.ctx, key)
	if err != nil {
		return nil, err
	}
	t.reads[key] = val
	return val, nil
}

func (t *tx) commit() error {
	if len(t.writes) == 0 {
		return nil
	}
	return t.store.SetMulti(t.ctx, t.writes)
}

// getSlot decodes one of the five fixed slots. A slot missing from the store
// means Initialize never ran.
func (t *tx) getSlot(key string, out any) error {
	raw, err := t.get(key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (t *tx) putSlot(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	t.writes[key] = raw
	return nil
}

func (t *tx) admin() (string, error) {
	var admin string
	if err := t.getSlot(store.KeyAdmin, &admin); err != nil {
		return "", err
	}
	return admin, nil
}

func (t *tx) events() (map[string]models.Event, error) {
	events := make(map[string]models.Event)
	if err := t.getSlot(store.KeyEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (t *tx) tickets() (map[string]models.Ticket, error) {
	tickets := make(map[string]models.Ticket)
	if err := t.getSlot(store.KeyTickets, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (t *tx) roster() ([]string, error) {
	var roster []string
	if err := t.getSlot(store.KeyRoster, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// nextID allocates an identifier from the shared monotonic counter. Events and
// tickets draw from the same counter; the prefix keeps the two id spaces
// disjoint.
func (t *tx) nextID(prefix string) (string, error) {
	var counter uint64
	if err := t.getSlot(store.KeyCounter, &counter); err != nil {
		return "", err
	}
	if err := t.putSlot(store.KeyCounter, counter+1); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", prefix, counter), nil
}
