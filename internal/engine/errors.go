package engine

import "errors"

// Every failure an operation can return wraps one of these sentinels. All of
// them abort the whole operation: nothing is written to the store when an
// operation returns an error.
var (
	// ErrNotInitialized means Initialize has never run against this store.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrUnauthorized means the caller is not the registered admin.
	ErrUnauthorized = errors.New("caller is not admin")

	// ErrNotFound means an event or ticket required by the operation is
	// absent. Plain lookups (GetEvent, GetTicket) report absence as a nil
	// result instead.
	ErrNotFound = errors.New("record not found")

	// ErrEventNotActive means tickets cannot be minted for the event.
	ErrEventNotActive = errors.New("event is not active")

	// ErrSoldOut means the event has no remaining capacity.
	ErrSoldOut = errors.New("event is sold out")

	// ErrAlreadyCancelled means the event was cancelled earlier.
	ErrAlreadyCancelled = errors.New("event already cancelled")

	// ErrNotOwner means the stated sender does not hold the ticket.
	ErrNotOwner = errors.New("not the ticket owner")

	// ErrTicketUsed means the ticket was already checked in.
	ErrTicketUsed = errors.New("ticket already used")

	// ErrTicketRefunded means the ticket was marked refunded.
	ErrTicketRefunded = errors.New("ticket refunded")

	// ErrEventCancelled means the ticket's event was cancelled, freezing it.
	ErrEventCancelled = errors.New("event cancelled")
)
