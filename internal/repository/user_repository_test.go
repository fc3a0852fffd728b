package repository

import (
	"context"
	"testing"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

func TestUserCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewUserRepository(kv)

	user := &domain.User{Email: "ana@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("Create did not stamp CreatedAt")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID.Email != "ana@example.com" {
		t.Fatalf("GetByID email = %q", byID.Email)
	}

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("GetByEmail id = %q, want %q", byEmail.ID, user.ID)
	}
}

func TestUserGetByEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemory())

	if err := repo.Create(ctx, &domain.User{Email: "Ana@Example.com"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	_, err := repo.GetByEmail(ctx, "ana@example.com")
	if !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND for different casing", err)
	}
}

func TestUserLookupMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemory())

	if _, err := repo.GetByID(ctx, "nope"); !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("GetByID error = %v, want NOT_FOUND", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("GetByEmail error = %v, want NOT_FOUND", err)
	}
}
