package service

import (
	"context"
	"testing"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

func newProfileService(t *testing.T) (*ProfileService, *domain.Profile, *domain.Profile) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewProfileRepository(store.NewMemory())

	user := &domain.Profile{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser, Sector: "TI"}
	admin := &domain.Profile{ID: "a1", Name: "Davi", Email: "davi@example.com", Role: domain.RoleAdmin}
	for _, p := range []*domain.Profile{user, admin} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	return NewProfileService(repo), user, admin
}

func TestProfileUpdateOwnFields(t *testing.T) {
	svc, user, _ := newProfileService(t)

	name := "Ana Souza"
	updated, err := svc.Update(context.Background(), user, user.ID, repository.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Ana Souza" {
		t.Fatalf("name = %q", updated.Name)
	}
}

func TestProfileUpdatePermissions(t *testing.T) {
	svc, user, admin := newProfileService(t)
	ctx := context.Background()

	name := "x"
	if _, err := svc.Update(ctx, user, admin.ID, repository.ProfileUpdate{Name: &name}); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("cross-user update error = %v, want FORBIDDEN", err)
	}

	role := domain.RoleTechnician
	if _, err := svc.Update(ctx, user, user.ID, repository.ProfileUpdate{Role: &role}); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("self role change error = %v, want FORBIDDEN", err)
	}

	updated, err := svc.Update(ctx, admin, user.ID, repository.ProfileUpdate{Role: &role})
	if err != nil {
		t.Fatalf("admin role change returned error: %v", err)
	}
	if updated.Role != domain.RoleTechnician {
		t.Fatalf("role = %q, want technician", updated.Role)
	}

	bogus := domain.Role("root")
	if _, err := svc.Update(ctx, admin, user.ID, repository.ProfileUpdate{Role: &bogus}); !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("bogus role error = %v, want VALIDATION_FAILED", err)
	}
}
