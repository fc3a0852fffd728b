package dto

import (
	"time"

	"github.com/suporte-ti/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Sector        string `json:"sector"`
	ProblemTypeID string `json:"problem_type_id"`
}

// CompleteTicketRequest payload.
type CompleteTicketRequest struct {
	Diagnosis string `json:"diagnosis"`
}

// RejectTicketRequest payload.
type RejectTicketRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

// ProblemTypeResponse is the public category shape.
type ProblemTypeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// TicketResponse is the joined projection shape consumed by dashboards:
// the ticket fields plus its creator profile, problem type and, when
// assigned, technician profile.
type TicketResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Sector          string              `json:"sector"`
	ProblemTypeID   string              `json:"problem_type_id"`
	Status          domain.TicketStatus `json:"status"`
	TechnicianID    *string             `json:"technician_id,omitempty"`
	Diagnosis       *string             `json:"diagnosis,omitempty"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	Profile         ProfileResponse     `json:"profiles"`
	ProblemType     ProblemTypeResponse `json:"problem_types"`
	Technician      *ProfileResponse    `json:"technician,omitempty"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	ActorID   string              `json:"actor_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewProblemTypeResponse maps a domain problem type.
func NewProblemTypeResponse(pt domain.ProblemType) ProblemTypeResponse {
	return ProblemTypeResponse{ID: pt.ID, Name: pt.Name, IsActive: pt.IsActive}
}

// NewTicketResponse maps a joined projection.
func NewTicketResponse(detailed *domain.TicketWithDetails) TicketResponse {
	resp := TicketResponse{
		ID:              detailed.ID,
		UserID:          detailed.UserID,
		Title:           detailed.Title,
		Description:     detailed.Description,
		Sector:          detailed.Sector,
		ProblemTypeID:   detailed.ProblemTypeID,
		Status:          detailed.Status,
		TechnicianID:    detailed.TechnicianID,
		Diagnosis:       detailed.Diagnosis,
		RejectionReason: detailed.RejectionReason,
		CreatedAt:       detailed.CreatedAt,
		UpdatedAt:       detailed.UpdatedAt,
		CompletedAt:     detailed.CompletedAt,
		Profile:         NewProfileResponse(&detailed.Profile),
		ProblemType:     NewProblemTypeResponse(detailed.ProblemType),
	}
	if detailed.Technician != nil {
		technician := NewProfileResponse(detailed.Technician)
		resp.Technician = &technician
	}
	return resp
}

// NewTicketHistoryResponse maps an audit entry.
func NewTicketHistoryResponse(entry domain.TicketHistory) TicketHistoryResponse {
	return TicketHistoryResponse{
		ID:        entry.ID,
		TicketID:  entry.TicketID,
		ActorID:   entry.ActorID,
		OldStatus: entry.OldStatus,
		NewStatus: entry.NewStatus,
		Comment:   entry.Comment,
		CreatedAt: entry.CreatedAt,
	}
}
