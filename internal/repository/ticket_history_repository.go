package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
)

// TicketHistoryRepository stores audit entries for lifecycle transitions.
type TicketHistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type kvTicketHistoryRepository struct {
	kv store.KV
}

// NewTicketHistoryRepository returns a record-store backed implementation.
func NewTicketHistoryRepository(kv store.KV) TicketHistoryRepository {
	return &kvTicketHistoryRepository{kv: kv}
}

func (r *kvTicketHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	entries, err := store.ReadCollection[domain.TicketHistory](ctx, r.kv, store.KeyHistory)
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entries = append(entries, *entry)
	return store.WriteCollection(ctx, r.kv, store.KeyHistory, entries)
}

func (r *kvTicketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	entries, err := store.ReadCollection[domain.TicketHistory](ctx, r.kv, store.KeyHistory)
	if err != nil {
		return nil, err
	}
	matched := []domain.TicketHistory{}
	for _, entry := range entries {
		if entry.TicketID == ticketID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}
