package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type kvUserRepository struct {
	kv store.KV
}

// NewUserRepository returns a record-store backed implementation.
func NewUserRepository(kv store.KV) UserRepository {
	return &kvUserRepository{kv: kv}
}

func (r *kvUserRepository) Create(ctx context.Context, user *domain.User) error {
	users, err := store.ReadCollection[domain.User](ctx, r.kv, store.KeyUsers)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	users = append(users, *user)
	return store.WriteCollection(ctx, r.kv, store.KeyUsers, users)
}

func (r *kvUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	users, err := store.ReadCollection[domain.User](ctx, r.kv, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, util.NewNotFound("user", map[string]any{"id": id})
}

func (r *kvUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := store.ReadCollection[domain.User](ctx, r.kv, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	// Exact, case-sensitive match.
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, util.NewNotFound("user", map[string]any{"email": email})
}
