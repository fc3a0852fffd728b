package domain

import "time"

// TicketHistory is an immutable audit entry recorded on every
// lifecycle transition.
type TicketHistory struct {
	ID        string       `json:"id"`
	TicketID  string       `json:"ticket_id"`
	ActorID   string       `json:"actor_id"`
	OldStatus TicketStatus `json:"old_status"`
	NewStatus TicketStatus `json:"new_status"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
