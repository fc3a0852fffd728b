package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/api/dto"
	"github.com/suporte-ti/helpdesk/internal/auth"
	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/internal/service"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// ProfileHandler exposes profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profileService}
}

// Get handles GET /profiles/:id.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Update handles PATCH /profiles/:id.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	update := repository.ProfileUpdate{
		Name:   req.Name,
		Sector: req.Sector,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}
	profile, err := h.profiles.Update(c.Context(), principal.Profile, c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}
