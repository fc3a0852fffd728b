package repository

import (
	"context"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// ProblemTypeRepository provides read access to the reference categories.
type ProblemTypeRepository interface {
	ListActive(ctx context.Context) ([]domain.ProblemType, error)
	GetByID(ctx context.Context, id string) (*domain.ProblemType, error)
}

type kvProblemTypeRepository struct {
	kv store.KV
}

// NewProblemTypeRepository returns a record-store backed implementation.
func NewProblemTypeRepository(kv store.KV) ProblemTypeRepository {
	return &kvProblemTypeRepository{kv: kv}
}

func (r *kvProblemTypeRepository) ListActive(ctx context.Context) ([]domain.ProblemType, error) {
	types, err := store.ReadCollection[domain.ProblemType](ctx, r.kv, store.KeyProblemTypes)
	if err != nil {
		return nil, err
	}
	active := make([]domain.ProblemType, 0, len(types))
	for _, pt := range types {
		if pt.IsActive {
			active = append(active, pt)
		}
	}
	return active, nil
}

func (r *kvProblemTypeRepository) GetByID(ctx context.Context, id string) (*domain.ProblemType, error) {
	types, err := store.ReadCollection[domain.ProblemType](ctx, r.kv, store.KeyProblemTypes)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].ID == id {
			return &types[i], nil
		}
	}
	return nil, util.NewNotFound("problem type", map[string]any{"id": id})
}
