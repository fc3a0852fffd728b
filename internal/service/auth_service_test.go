package service

import (
	"context"
	"testing"

	"github.com/suporte-ti/helpdesk/internal/config"
	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	kv := store.NewMemory()
	if err := store.Initialize(context.Background(), kv); err != nil {
		t.Fatalf("store init: %v", err)
	}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4, // min cost keeps the suite fast
		},
	}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:    repository.NewUserRepository(kv),
		ProfileRepo: repository.NewProfileRepository(kv),
	})
}

func TestSignUpCreatesUserAndProfile(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	session, err := svc.SignUp(ctx, SignUpInput{
		Email:    "ana@example.com",
		Password: "segredo123",
		Name:     "Ana Lima",
		Sector:   "Financeiro",
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if session.User.ID == "" {
		t.Fatal("user id not assigned")
	}
	if session.Profile.ID != session.User.ID {
		t.Fatalf("profile id %q differs from user id %q", session.Profile.ID, session.User.ID)
	}
	if session.Profile.Role != domain.RoleUser {
		t.Fatalf("role = %q, want default user", session.Profile.Role)
	}
	if session.User.PasswordHash == "segredo123" || session.User.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if session.Token == "" {
		t.Fatal("session token not issued")
	}
	if session.ExpiresAt.IsZero() {
		t.Fatal("session expiry not set")
	}
}

func TestSignUpValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	cases := []SignUpInput{
		{Password: "x", Name: "a"},
		{Email: "a@b.c", Name: "a"},
		{Email: "a@b.c", Password: "x"},
	}
	for _, input := range cases {
		if _, err := svc.SignUp(ctx, input); !util.HasCode(err, util.CodeValidation) {
			t.Fatalf("SignUp(%+v) error = %v, want VALIDATION_FAILED", input, err)
		}
	}

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.c", Password: "x", Name: "a", Role: "root"})
	if !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("unknown role error = %v, want VALIDATION_FAILED", err)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	input := SignUpInput{Email: "ana@example.com", Password: "segredo123", Name: "Ana"}
	if _, err := svc.SignUp(ctx, input); err != nil {
		t.Fatalf("first SignUp returned error: %v", err)
	}
	_, err := svc.SignUp(ctx, input)
	if !util.HasCode(err, util.CodeDuplicateAccount) {
		t.Fatalf("second SignUp error = %v, want DUPLICATE_ACCOUNT", err)
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	if _, err := svc.SignUp(ctx, SignUpInput{Email: "ana@example.com", Password: "segredo123", Name: "Ana"}); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	session, err := svc.SignIn(ctx, "ana@example.com", "segredo123")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if session.Token == "" || session.Profile == nil {
		t.Fatalf("incomplete session: %+v", session)
	}

	if _, err := svc.SignIn(ctx, "ana@example.com", "errada"); !util.HasCode(err, util.CodeUnauthorized) {
		t.Fatalf("wrong password error = %v, want UNAUTHORIZED", err)
	}
	if _, err := svc.SignIn(ctx, "ninguem@example.com", "segredo123"); !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("unknown email error = %v, want NOT_FOUND", err)
	}
}

func TestCurrentSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	session, err := svc.SignUp(ctx, SignUpInput{Email: "ana@example.com", Password: "segredo123", Name: "Ana"})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	user, profile, err := svc.CurrentSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("CurrentSession returned error: %v", err)
	}
	if user == nil || profile == nil {
		t.Fatal("expected a resolved session")
	}
	if user.ID != session.User.ID || profile.ID != user.ID {
		t.Fatalf("session mismatch: user=%q profile=%q", user.ID, profile.ID)
	}
}

func TestCurrentSessionInvalidToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	for _, token := range []string{"", "not-a-jwt"} {
		user, profile, err := svc.CurrentSession(ctx, token)
		if err != nil {
			t.Fatalf("CurrentSession(%q) returned error: %v", token, err)
		}
		if user != nil || profile != nil {
			t.Fatalf("CurrentSession(%q) resolved a session", token)
		}
	}
}

func TestSignOutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	if err := svc.SignOut(ctx, "u1"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if err := svc.SignOut(ctx, "u1"); err != nil {
		t.Fatalf("repeated SignOut returned error: %v", err)
	}
}
