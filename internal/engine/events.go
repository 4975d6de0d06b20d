package engine

import (
	"context"
	"fmt"

	"eventx/internal/models"
	"eventx/internal/store"
)

// CreateEvent registers a new event and returns its id. Admin only. The
// supplied capacity and price are recorded unchecked: a zero-capacity event
// simply never sells a ticket, and a negative price is informational since the
// engine settles no payments.
func (e *Engine) CreateEvent(ctx context.Context, caller string, params models.CreateEventParams) (string, error) {
	t := e.begin(ctx)

	if err := requireAdmin(t, caller); err != nil {
		return "", err
	}

	id, err := t.nextID("event")
	if err != nil {
		return "", err
	}

	events, err := t.events()
	if err != nil {
		return "", err
	}
	events[id] = models.Event{
		ID:           id,
		Title:        params.Title,
		Description:  params.Description,
		Organizer:    caller,
		TotalTickets: params.TotalTickets,
		TicketsSold:  0,
		TicketPrice:  params.TicketPrice,
		EventDate:    params.EventDate,
		IsActive:     true,
		IsCancelled:  false,
	}

	roster, err := t.roster()
	if err != nil {
		return "", err
	}
	roster = append(roster, id)

	if err := t.putSlot(store.KeyEvents, events); err != nil {
		return "", err
	}
	if err := t.putSlot(store.KeyRoster, roster); err != nil {
		return "", err
	}
	if err := t.commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetEvent looks up one event. An unknown id is a valid nil result, not an
// error.
func (e *Engine) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	events, err := e.begin(ctx).events()
	if err != nil {
		return nil, err
	}
	event, ok := events[id]
	if !ok {
		return nil, nil
	}
	return &event, nil
}

// Events returns all events in roster (creation) order. Roster ids without a
// matching record are skipped; the roster is append-only so this should not
// happen.
func (e *Engine) Events(ctx context.Context) ([]models.Event, error) {
	t := e.begin(ctx)

	events, err := t.events()
	if err != nil {
		return nil, err
	}
	roster, err := t.roster()
	if err != nil {
		return nil, err
	}

	out := make([]models.Event, 0, len(roster))
	for _, id := range roster {
		if event, ok := events[id]; ok {
			out = append(out, event)
		}
	}
	return out, nil
}

// EventTicketCount returns how many tickets the event has sold.
func (e *Engine) EventTicketCount(ctx context.Context, id string) (uint32, error) {
	events, err := e.begin(ctx).events()
	if err != nil {
		return 0, err
	}
	event, ok := events[id]
	if !ok {
		return 0, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return event.TicketsSold, nil
}

// CancelEvent marks the event cancelled and inactive. Admin only, permanent.
// Tickets of the event are untouched: refund handling belongs to whatever
// external observer reacts to the cancellation.
func (e *Engine) CancelEvent(ctx context.Context, caller, id string) error {
	t := e.begin(ctx)

	if err := requireAdmin(t, caller); err != nil {
		return err
	}

	events, err := t.events()
	if err != nil {
		return err
	}
	event, ok := events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if event.IsCancelled {
		return fmt.Errorf("event %s: %w", id, ErrAlreadyCancelled)
	}

	event.IsCancelled = true
	event.IsActive = false
	events[id] = event

	if err := t.putSlot(store.KeyEvents, events); err != nil {
		return err
	}
	return t.commit()
}
