package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Profile == nil {
			return util.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Profile.Role]; !exists {
			return util.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireTechnician ensures the caller holds an elevated role.
func RequireTechnician() fiber.Handler {
	return RequireRole(domain.RoleTechnician, domain.RoleAdmin)
}
