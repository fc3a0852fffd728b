package repository

import (
	"context"
	"time"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// ProfileUpdate carries the mutable profile fields; nil means keep.
type ProfileUpdate struct {
	Name   *string
	Sector *string
	Role   *domain.Role
}

// ProfileRepository defines persistence access for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error)
}

type kvProfileRepository struct {
	kv store.KV
}

// NewProfileRepository returns a record-store backed implementation.
func NewProfileRepository(kv store.KV) ProfileRepository {
	return &kvProfileRepository{kv: kv}
}

func (r *kvProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	profiles, err := store.ReadCollection[domain.Profile](ctx, r.kv, store.KeyProfiles)
	if err != nil {
		return err
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	profiles = append(profiles, *profile)
	return store.WriteCollection(ctx, r.kv, store.KeyProfiles, profiles)
}

func (r *kvProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	profiles, err := store.ReadCollection[domain.Profile](ctx, r.kv, store.KeyProfiles)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == id {
			return &profiles[i], nil
		}
	}
	return nil, util.NewNotFound("profile", map[string]any{"id": id})
}

func (r *kvProfileRepository) Update(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error) {
	profiles, err := store.ReadCollection[domain.Profile](ctx, r.kv, store.KeyProfiles)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID != id {
			continue
		}
		if update.Name != nil {
			profiles[i].Name = *update.Name
		}
		if update.Sector != nil {
			profiles[i].Sector = *update.Sector
		}
		if update.Role != nil {
			profiles[i].Role = *update.Role
		}
		if err := store.WriteCollection(ctx, r.kv, store.KeyProfiles, profiles); err != nil {
			return nil, err
		}
		return &profiles[i], nil
	}
	return nil, util.NewNotFound("profile", map[string]any{"id": id})
}
