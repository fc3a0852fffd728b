package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

type postgresTicketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketHistoryRepository returns a Postgres-backed implementation.
func NewPostgresTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &postgresTicketHistoryRepository{pool: pool}
}

func (r *postgresTicketHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, actor_id, old_status, new_status, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.ActorID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return util.NewStorageError("insert ticket history", err)
	}
	return nil
}

func (r *postgresTicketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, actor_id, old_status, new_status, comment, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, util.NewStorageError("select ticket history", err)
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var entry domain.TicketHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.ActorID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, util.NewStorageError("scan ticket history", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError("select ticket history", err)
	}
	return result, nil
}
