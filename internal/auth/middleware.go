package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the account plus the
// role-bearing profile.
type Principal struct {
	User    *domain.User
	Profile *domain.Profile
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, profiles repository.ProfileRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users, profiles: profiles}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return util.NewUnauthorized("account not found")
		}
		return err
	}
	profile, err := m.profiles.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return util.NewUnauthorized("profile not found")
		}
		return err
	}

	c.Locals(principalKey, &Principal{User: user, Profile: profile})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
