package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

type postgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository returns a Postgres-backed implementation.
func NewPostgresProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &postgresProfileRepository{pool: pool}
}

func (r *postgresProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (id, name, email, role, sector)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	if err := r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Role,
		profile.Sector,
	).Scan(&profile.CreatedAt); err != nil {
		return util.NewStorageError("insert profile", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, name, email, role, sector, created_at
        FROM profiles WHERE id=$1`
	var profile domain.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Role,
		&profile.Sector,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("profile", map[string]any{"id": id})
	}
	if err != nil {
		return nil, util.NewStorageError("select profile", err)
	}
	return &profile, nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error) {
	sets := []string{}
	args := []any{}
	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name=$%d", len(args)))
	}
	if update.Sector != nil {
		args = append(args, *update.Sector)
		sets = append(sets, fmt.Sprintf("sector=$%d", len(args)))
	}
	if update.Role != nil {
		args = append(args, *update.Role)
		sets = append(sets, fmt.Sprintf("role=$%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE profiles SET %s WHERE id=$%d
        RETURNING id, name, email, role, sector, created_at`,
		strings.Join(sets, ", "), len(args))

	var profile domain.Profile
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Role,
		&profile.Sector,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("profile", map[string]any{"id": id})
	}
	if err != nil {
		return nil, util.NewStorageError("update profile", err)
	}
	return &profile, nil
}
