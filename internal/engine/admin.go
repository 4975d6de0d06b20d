package engine

import (
	"context"
	"fmt"

	"eventx/internal/models"
	"eventx/internal/store"
)

// Initialize bootstraps the engine: registers the admin identity and writes
// empty event/ticket maps, an empty roster, and a zeroed id counter. It must
// run before any other operation. Calling it again is not guarded and resets
// all state.
func (e *Engine) Initialize(ctx context.Context, admin string) error {
	t := e.begin(ctx)

	if err := t.putSlot(store.KeyAdmin, admin); err != nil {
		return err
	}
	if err := t.putSlot(store.KeyEvents, map[string]models.Event{}); err != nil {
		return err
	}
	if err := t.putSlot(store.KeyTickets, map[string]models.Ticket{}); err != nil {
		return err
	}
	if err := t.putSlot(store.KeyRoster, []string{}); err != nil {
		return err
	}
	if err := t.putSlot(store.KeyCounter, uint64(0)); err != nil {
		return err
	}
	return t.commit()
}

// Admin returns the registered admin identity.
func (e *Engine) Admin(ctx context.Context) (string, error) {
	return e.begin(ctx).admin()
}

// SetAdmin replaces the admin identity. Only the current admin may rotate it.
func (e *Engine) SetAdmin(ctx context.Context, caller, newAdmin string) error {
	t := e.begin(ctx)

	if err := requireAdmin(t, caller); err != nil {
		return err
	}
	if err := t.putSlot(store.KeyAdmin, newAdmin); err != nil {
		return err
	}
	return t.commit()
}

// requireAdmin gates privileged operations: event creation and cancellation,
// ticket check-in, and admin rotation.
func requireAdmin(t *tx, caller string) error {
	admin, err := t.admin()
	if err != nil {
		return err
	}
	if caller != admin {
		return fmt.Errorf("caller %s: %w", caller, ErrUnauthorized)
	}
	return nil
}
