package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/events"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle and the joined reads
// the presentation layer consumes.
type TicketService struct {
	tickets      repository.TicketRepository
	profiles     repository.ProfileRepository
	problemTypes repository.ProblemTypeRepository
	history      repository.TicketHistoryRepository
	dispatcher   events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo      repository.TicketRepository
	ProfileRepo     repository.ProfileRepository
	ProblemTypeRepo repository.ProblemTypeRepository
	HistoryRepo     repository.TicketHistoryRepository
	Dispatcher      events.Dispatcher
}

// CreateTicketInput describes the ticket creation payload.
type CreateTicketInput struct {
	Title         string
	Description   string
	Sector        string
	ProblemTypeID string
}

// ListFilter describes ticket listing filters. Visibility is derived
// from the actor: elevated roles see every ticket.
type ListFilter struct {
	Status        *domain.TicketStatus
	Sector        *string
	ProblemTypeID *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:      deps.TicketRepo,
		profiles:     deps.ProfileRepo,
		problemTypes: deps.ProblemTypeRepo,
		history:      deps.HistoryRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Lifecycle graph: open may be accepted or rejected, an in-progress
// ticket may be completed or rejected. Completed and rejected are
// terminal.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusRejected},
	domain.TicketStatusInProgress: {domain.TicketStatusCompleted, domain.TicketStatusRejected},
	domain.TicketStatusCompleted:  {},
	domain.TicketStatusRejected:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create opens a ticket for the acting user. Only the "user" role opens
// tickets; at most one active ticket may exist per
// (user, sector, problem type) triple.
func (s *TicketService) Create(ctx context.Context, actor *domain.Profile, input CreateTicketInput) (*domain.TicketWithDetails, error) {
	if actor.Role != domain.RoleUser {
		return nil, util.NewForbidden("only end users open tickets")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	sector := strings.TrimSpace(input.Sector)
	if title == "" || description == "" || sector == "" || input.ProblemTypeID == "" {
		return nil, util.NewValidationError("title, description, sector and problem_type_id are required", nil)
	}

	problemType, err := s.problemTypes.GetByID(ctx, input.ProblemTypeID)
	if err != nil {
		return nil, err
	}
	if !problemType.IsActive {
		return nil, util.NewValidationError("problem type is inactive", map[string]any{"problem_type_id": problemType.ID})
	}

	duplicates, err := s.tickets.FindActive(ctx, actor.ID, sector, input.ProblemTypeID)
	if err != nil {
		return nil, err
	}
	if len(duplicates) > 0 {
		return nil, util.NewDuplicateTicket(map[string]any{
			"sector":          sector,
			"problem_type_id": input.ProblemTypeID,
		})
	}

	ticket := &domain.Ticket{
		UserID:        actor.ID,
		Title:         title,
		Description:   description,
		Sector:        sector,
		ProblemTypeID: input.ProblemTypeID,
	}
	// The repository re-runs the duplicate check atomically with the
	// insert, so a concurrent create for the same triple still fails.
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: actor.ID,
		Payload: events.TicketCreatedPayload{
			TicketID:      ticket.ID,
			Sector:        ticket.Sector,
			ProblemTypeID: ticket.ProblemTypeID,
			Title:         ticket.Title,
		},
	})
	return s.withDetails(ctx, ticket)
}

// List returns joined projections visible to the actor, newest first.
func (s *TicketService) List(ctx context.Context, actor *domain.Profile, filter ListFilter) ([]domain.TicketWithDetails, error) {
	userID := actor.ID
	repoFilter := repository.TicketFilter{
		UserID:        &userID,
		Status:        filter.Status,
		Sector:        filter.Sector,
		ProblemTypeID: filter.ProblemTypeID,
		IsTechnician:  actor.Role.Elevated(),
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	result := make([]domain.TicketWithDetails, 0, len(tickets))
	for i := range tickets {
		detailed, err := s.withDetails(ctx, &tickets[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *detailed)
	}
	return result, nil
}

// Get returns the joined projection of one ticket. Owners and elevated
// roles may read it.
func (s *TicketService) Get(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.TicketWithDetails, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != actor.ID && !actor.Role.Elevated() {
		return nil, util.NewForbidden("access denied")
	}
	return s.withDetails(ctx, ticket)
}

// Accept moves an open ticket to in_progress and assigns the actor.
func (s *TicketService) Accept(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.TicketWithDetails, error) {
	if !actor.Role.Elevated() {
		return nil, util.NewForbidden("technician role required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusInProgress) {
		return nil, util.NewValidationError("ticket cannot be accepted in its current status", map[string]any{"status": string(ticket.Status)})
	}

	status := domain.TicketStatusInProgress
	technicianID := actor.ID
	updated, err := s.tickets.Update(ctx, ticketID, repository.TicketUpdate{
		Status:       &status,
		TechnicianID: &technicianID,
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, actor.ID, updated, ticket.Status, "accepted")
	return s.withDetails(ctx, updated)
}

// Complete finishes an in-progress ticket. Only the assigned technician
// may complete, and a diagnosis is mandatory.
func (s *TicketService) Complete(ctx context.Context, actor *domain.Profile, ticketID, diagnosis string) (*domain.TicketWithDetails, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusCompleted) {
		return nil, util.NewValidationError("ticket cannot be completed in its current status", map[string]any{"status": string(ticket.Status)})
	}
	if ticket.TechnicianID == nil || *ticket.TechnicianID != actor.ID {
		return nil, util.NewForbidden("only the assigned technician completes a ticket")
	}
	diagnosis = strings.TrimSpace(diagnosis)
	if diagnosis == "" {
		return nil, util.NewValidationError("diagnosis is required", nil)
	}

	status := domain.TicketStatusCompleted
	now := time.Now().UTC()
	updated, err := s.tickets.Update(ctx, ticketID, repository.TicketUpdate{
		Status:      &status,
		Diagnosis:   &diagnosis,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, actor.ID, updated, ticket.Status, "completed")
	return s.withDetails(ctx, updated)
}

// Reject refuses a ticket with a mandatory reason. Allowed from open
// and in_progress; the rejecting technician is assigned when the ticket
// had none.
func (s *TicketService) Reject(ctx context.Context, actor *domain.Profile, ticketID, reason string) (*domain.TicketWithDetails, error) {
	if !actor.Role.Elevated() {
		return nil, util.NewForbidden("technician role required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusRejected) {
		return nil, util.NewValidationError("ticket cannot be rejected in its current status", map[string]any{"status": string(ticket.Status)})
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, util.NewValidationError("rejection reason is required", nil)
	}

	status := domain.TicketStatusRejected
	update := repository.TicketUpdate{
		Status:          &status,
		RejectionReason: &reason,
	}
	// technician_id is set once the ticket leaves open and never cleared.
	if ticket.TechnicianID == nil {
		technicianID := actor.ID
		update.TechnicianID = &technicianID
	}
	updated, err := s.tickets.Update(ctx, ticketID, update)
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, actor.ID, updated, ticket.Status, "rejected")
	return s.withDetails(ctx, updated)
}

// CheckDuplicates returns active tickets matching the triple.
func (s *TicketService) CheckDuplicates(ctx context.Context, userID, sector, problemTypeID string) ([]domain.Ticket, error) {
	return s.tickets.FindActive(ctx, userID, sector, problemTypeID)
}

// ListProblemTypes returns the active reference categories.
func (s *TicketService) ListProblemTypes(ctx context.Context) ([]domain.ProblemType, error) {
	return s.problemTypes.ListActive(ctx)
}

// History lists the audit trail of a ticket, oldest first. Same
// visibility rule as Get.
func (s *TicketService) History(ctx context.Context, actor *domain.Profile, ticketID string) ([]domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != actor.ID && !actor.Role.Elevated() {
		return nil, util.NewForbidden("access denied")
	}
	return s.history.ListByTicket(ctx, ticketID)
}

// withDetails joins the ticket with its creator profile, problem type
// and technician. A dangling creator or problem-type reference is an
// integrity failure; a dangling technician reference only leaves the
// field empty.
func (s *TicketService) withDetails(ctx context.Context, ticket *domain.Ticket) (*domain.TicketWithDetails, error) {
	profile, err := s.profiles.GetByID(ctx, ticket.UserID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, util.NewStorageError("join ticket", fmt.Errorf("ticket %s references missing profile %s", ticket.ID, ticket.UserID))
		}
		return nil, err
	}
	problemType, err := s.problemTypes.GetByID(ctx, ticket.ProblemTypeID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, util.NewStorageError("join ticket", fmt.Errorf("ticket %s references missing problem type %s", ticket.ID, ticket.ProblemTypeID))
		}
		return nil, err
	}

	detailed := &domain.TicketWithDetails{
		Ticket:      *ticket,
		Profile:     *profile,
		ProblemType: *problemType,
	}
	if ticket.TechnicianID != nil {
		technician, err := s.profiles.GetByID(ctx, *ticket.TechnicianID)
		if err == nil {
			detailed.Technician = technician
		} else if !util.HasCode(err, util.CodeNotFound) {
			return nil, err
		}
	}
	return detailed, nil
}

func (s *TicketService) recordTransition(ctx context.Context, actorID string, ticket *domain.Ticket, oldStatus domain.TicketStatus, comment string) {
	if s.history != nil {
		entry := &domain.TicketHistory{
			TicketID:  ticket.ID,
			ActorID:   actorID,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Comment:   comment,
		}
		_ = s.history.Create(ctx, entry)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketStatusChanged,
		ActorID: actorID,
		Payload: events.TicketStatusChangedPayload{
			TicketID:  ticket.ID,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Comment:   comment,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
