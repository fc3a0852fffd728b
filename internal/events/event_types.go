package events

import (
	"time"

	"github.com/suporte-ti/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventSessionStarted      EventType = "session_started"
	EventSessionEnded        EventType = "session_ended"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID      string `json:"ticket_id"`
	Sector        string `json:"sector"`
	ProblemTypeID string `json:"problem_type_id"`
	Title         string `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// SessionPayload payload for session start/end events.
type SessionPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
