package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

type postgresProblemTypeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProblemTypeRepository returns a Postgres-backed implementation.
func NewPostgresProblemTypeRepository(pool *pgxpool.Pool) ProblemTypeRepository {
	return &postgresProblemTypeRepository{pool: pool}
}

func (r *postgresProblemTypeRepository) ListActive(ctx context.Context) ([]domain.ProblemType, error) {
	const query = `
        SELECT id, name, is_active
        FROM problem_types WHERE is_active ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, util.NewStorageError("select problem types", err)
	}
	defer rows.Close()

	var result []domain.ProblemType
	for rows.Next() {
		var pt domain.ProblemType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.IsActive); err != nil {
			return nil, util.NewStorageError("scan problem type", err)
		}
		result = append(result, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError("select problem types", err)
	}
	return result, nil
}

func (r *postgresProblemTypeRepository) GetByID(ctx context.Context, id string) (*domain.ProblemType, error) {
	const query = `
        SELECT id, name, is_active
        FROM problem_types WHERE id=$1`
	var pt domain.ProblemType
	err := r.pool.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.Name, &pt.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("problem type", map[string]any{"id": id})
	}
	if err != nil {
		return nil, util.NewStorageError("select problem type", err)
	}
	return &pt, nil
}
