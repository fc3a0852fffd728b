package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// TicketFilter captures listing parameters. When IsTechnician is true
// the UserID filter is ignored: elevated roles see every ticket.
type TicketFilter struct {
	UserID        *string
	Status        *domain.TicketStatus
	Sector        *string
	ProblemTypeID *string
	IsTechnician  bool
}

// TicketUpdate carries a partial ticket mutation; nil means keep.
type TicketUpdate struct {
	Title           *string
	Description     *string
	Status          *domain.TicketStatus
	TechnicianID    *string
	Diagnosis       *string
	RejectionReason *string
	CompletedAt     *time.Time
}

// TicketRepository encapsulates ticket persistence. Create enforces the
// duplicate policy: at most one ticket in an active status per
// (user, sector, problem type) triple.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	FindActive(ctx context.Context, userID, sector, problemTypeID string) ([]domain.Ticket, error)
}

type kvTicketRepository struct {
	kv store.KV

	// Serializes read-modify-write cycles so the duplicate check and
	// the insert form a single atomic step within this process.
	mu sync.Mutex
}

// NewTicketRepository returns a record-store backed implementation.
func NewTicketRepository(kv store.KV) TicketRepository {
	return &kvTicketRepository{kv: kv}
}

func (r *kvTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := store.ReadCollection[domain.Ticket](ctx, r.kv, store.KeyTickets)
	if err != nil {
		return err
	}
	for _, existing := range tickets {
		if existing.UserID == ticket.UserID &&
			existing.Sector == ticket.Sector &&
			existing.ProblemTypeID == ticket.ProblemTypeID &&
			existing.Status.Active() {
			return util.NewDuplicateTicket(map[string]any{
				"sector":          ticket.Sector,
				"problem_type_id": ticket.ProblemTypeID,
			})
		}
	}

	now := time.Now().UTC()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.Status = domain.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	tickets = append(tickets, *ticket)
	return store.WriteCollection(ctx, r.kv, store.KeyTickets, tickets)
}

func (r *kvTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	tickets, err := store.ReadCollection[domain.Ticket](ctx, r.kv, store.KeyTickets)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, util.NewNotFound("ticket", map[string]any{"id": id})
}

func (r *kvTicketRepository) Update(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := store.ReadCollection[domain.Ticket](ctx, r.kv, store.KeyTickets)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		applyTicketUpdate(&tickets[i], update)
		tickets[i].UpdatedAt = time.Now().UTC()
		if err := store.WriteCollection(ctx, r.kv, store.KeyTickets, tickets); err != nil {
			return nil, err
		}
		return &tickets[i], nil
	}
	return nil, util.NewNotFound("ticket", map[string]any{"id": id})
}

func (r *kvTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	tickets, err := store.ReadCollection[domain.Ticket](ctx, r.kv, store.KeyTickets)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if filter.UserID != nil && !filter.IsTechnician && ticket.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Sector != nil && ticket.Sector != *filter.Sector {
			continue
		}
		if filter.ProblemTypeID != nil && ticket.ProblemTypeID != *filter.ProblemTypeID {
			continue
		}
		matched = append(matched, ticket)
	}
	// Newest first; insertion order breaks ties.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *kvTicketRepository) FindActive(ctx context.Context, userID, sector, problemTypeID string) ([]domain.Ticket, error) {
	tickets, err := store.ReadCollection[domain.Ticket](ctx, r.kv, store.KeyTickets)
	if err != nil {
		return nil, err
	}
	matched := []domain.Ticket{}
	for _, ticket := range tickets {
		if ticket.UserID == userID &&
			ticket.Sector == sector &&
			ticket.ProblemTypeID == problemTypeID &&
			ticket.Status.Active() {
			matched = append(matched, ticket)
		}
	}
	return matched, nil
}

func applyTicketUpdate(ticket *domain.Ticket, update TicketUpdate) {
	if update.Title != nil {
		ticket.Title = *update.Title
	}
	if update.Description != nil {
		ticket.Description = *update.Description
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.TechnicianID != nil {
		ticket.TechnicianID = update.TechnicianID
	}
	if update.Diagnosis != nil {
		ticket.Diagnosis = update.Diagnosis
	}
	if update.RejectionReason != nil {
		ticket.RejectionReason = update.RejectionReason
	}
	if update.CompletedAt != nil {
		ticket.CompletedAt = update.CompletedAt
	}
}
