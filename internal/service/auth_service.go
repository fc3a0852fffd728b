package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/suporte-ti/helpdesk/internal/auth"
	"github.com/suporte-ti/helpdesk/internal/config"
	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/events"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// AuthService coordinates account creation and session handling. The
// session pointer is a signed bearer token rather than a stored
// singleton, so sign-out is a client concern and CurrentSession is an
// explicit query.
type AuthService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies bundles repositories for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
}

// SignUpInput describes the sign-up payload.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Sector   string
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	User      *domain.User
	Profile   *domain.Profile
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		profiles:   deps.ProfileRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// SignUp creates a User and its Profile. The profile shares the user id
// and the role defaults to "user" when unspecified.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*Session, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, util.NewValidationError("email, password and name are required", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, util.NewValidationError("unknown role", map[string]any{"role": string(input.Role)})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, util.NewDuplicateAccount(input.Email)
	} else if !util.HasCode(err, util.CodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:     user.ID,
		Name:   input.Name,
		Email:  input.Email,
		Role:   role,
		Sector: input.Sector,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, profile)
}

// SignIn authenticates by email and password.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	profile, err := s.profiles.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user, profile)
}

// SignOut ends the caller's session. Tokens are stateless so there is
// nothing to clear server-side; the call is idempotent and only emits
// the session event.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	s.publish(ctx, events.Event{
		Type:    events.EventSessionEnded,
		ActorID: userID,
		Payload: events.SessionPayload{UserID: userID},
	})
	return nil
}

// CurrentSession resolves a bearer token to its user and profile. An
// empty or invalid token yields no session rather than an error.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.User, *domain.Profile, error) {
	if token == "" {
		return nil, nil, nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, nil, nil
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	profile, err := s.profiles.GetByID(ctx, user.ID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return user, profile, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, profile *domain.Profile) (*Session, error) {
	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventSessionStarted,
		ActorID: user.ID,
		Payload: events.SessionPayload{UserID: user.ID, Email: user.Email},
	})
	return &Session{User: user, Profile: profile, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
