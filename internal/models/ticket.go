package models

// Ticket is a transferable claim of attendance against one event. Ownership
// changes via transfer until the ticket is used (checked in); both the used and
// refunded flags are one-way and freeze the ticket once set.
type Ticket struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	Owner        string `json:"owner"`
	IsUsed       bool   `json:"is_used"`
	IsRefunded   bool   `json:"is_refunded"`
	PurchaseDate int64  `json:"purchase_date"`
}
