package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// activeTripleConstraint is the partial unique index closing the
// duplicate-check-then-insert race at the database level.
const activeTripleConstraint = "tickets_active_triple"

const ticketColumns = `id, user_id, title, description, sector, problem_type_id,
               status, technician_id, diagnosis, rejection_reason,
               created_at, updated_at, completed_at`

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository returns a Postgres-backed implementation.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, title, description, sector, problem_type_id, status)
        VALUES ($1, $2, $3, $4, $5, 'open')
        RETURNING id, status, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Title,
		ticket.Description,
		ticket.Sector,
		ticket.ProblemTypeID,
	).Scan(&ticket.ID, &ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeTripleConstraint {
			return util.NewDuplicateTicket(map[string]any{
				"sector":          ticket.Sector,
				"problem_type_id": ticket.ProblemTypeID,
			})
		}
		return util.NewStorageError("insert ticket", err)
	}
	return nil
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, util.NewStorageError("select ticket", err)
	}
	return ticket, nil
}

func (r *postgresTicketRepository) Update(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{}
	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.TechnicianID != nil {
		args = append(args, *update.TechnicianID)
		sets = append(sets, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if update.Diagnosis != nil {
		args = append(args, *update.Diagnosis)
		sets = append(sets, fmt.Sprintf("diagnosis=$%d", len(args)))
	}
	if update.RejectionReason != nil {
		args = append(args, *update.RejectionReason)
		sets = append(sets, fmt.Sprintf("rejection_reason=$%d", len(args)))
	}
	if update.CompletedAt != nil {
		args = append(args, *update.CompletedAt)
		sets = append(sets, fmt.Sprintf("completed_at=$%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), ticketColumns)

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, util.NewStorageError("update ticket", err)
	}
	return ticket, nil
}

func (r *postgresTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil && !filter.IsTechnician {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Sector != nil {
		args = append(args, *filter.Sector)
		clauses = append(clauses, fmt.Sprintf("sector=$%d", len(args)))
	}
	if filter.ProblemTypeID != nil {
		args = append(args, *filter.ProblemTypeID)
		clauses = append(clauses, fmt.Sprintf("problem_type_id=$%d", len(args)))
	}

	// seq preserves insertion order for equal timestamps.
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, seq ASC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, util.NewStorageError("select tickets", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresTicketRepository) FindActive(ctx context.Context, userID, sector, problemTypeID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE user_id=$1 AND sector=$2 AND problem_type_id=$3
          AND status IN ('open', 'in_progress')`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, userID, sector, problemTypeID)
	if err != nil {
		return nil, util.NewStorageError("select tickets", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Sector,
		&ticket.ProblemTypeID,
		&ticket.Status,
		&ticket.TechnicianID,
		&ticket.Diagnosis,
		&ticket.RejectionReason,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, util.NewStorageError("scan ticket", err)
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError("select tickets", err)
	}
	return result, nil
}
