package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusRejected   TicketStatus = "rejected"
)

// Active reports whether the status counts against the duplicate
// policy (at most one active ticket per user/sector/problem-type).
func (s TicketStatus) Active() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress
}

// Terminal reports whether no further transitions are possible.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusRejected
}

// Ticket is the aggregate for support requests. Owned by its creator
// (UserID); mutated only through lifecycle transitions; never deleted.
type Ticket struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Sector          string       `json:"sector"`
	ProblemTypeID   string       `json:"problem_type_id"`
	Status          TicketStatus `json:"status"`
	TechnicianID    *string      `json:"technician_id,omitempty"`
	Diagnosis       *string      `json:"diagnosis,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

// TicketWithDetails is the read-only projection joining a ticket to its
// creator profile, problem type and, when assigned, technician profile.
// Computed on every read, never persisted.
type TicketWithDetails struct {
	Ticket
	Profile     Profile
	ProblemType ProblemType
	Technician  *Profile
}
