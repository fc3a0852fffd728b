package service

import (
	"context"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// ProfileService exposes profile reads and the profile-update operation.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the profile for a user id.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// Update mutates name, sector or role. Users update their own name and
// sector; role changes and updates to other profiles require admin.
func (s *ProfileService) Update(ctx context.Context, actor *domain.Profile, userID string, update repository.ProfileUpdate) (*domain.Profile, error) {
	if userID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, util.NewForbidden("cannot update another user's profile")
	}
	if update.Role != nil {
		if actor.Role != domain.RoleAdmin {
			return nil, util.NewForbidden("only admins change roles")
		}
		if !update.Role.Valid() {
			return nil, util.NewValidationError("unknown role", map[string]any{"role": string(*update.Role)})
		}
	}
	return s.profiles.Update(ctx, userID, update)
}
