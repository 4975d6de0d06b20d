package models

// Event is a ticketed occasion with a fixed capacity and price. Events are
// created by the admin, accumulate sold tickets, and can be cancelled exactly
// once; cancellation is permanent.
type Event struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Organizer    string `json:"organizer"`
	TotalTickets uint32 `json:"total_tickets"`
	TicketsSold  uint32 `json:"tickets_sold"`
	TicketPrice  int64  `json:"ticket_price"`
	EventDate    int64  `json:"event_date"`
	IsActive     bool   `json:"is_active"`
	IsCancelled  bool   `json:"is_cancelled"`
}

// CreateEventParams carries the caller-supplied fields for a new event.
// Capacity and price are recorded as given; the engine does not reject a zero
// capacity or a negative price.
type CreateEventParams struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TotalTickets uint32 `json:"total_tickets"`
	TicketPrice  int64  `json:"ticket_price"`
	EventDate    int64  `json:"event_date"`
}
