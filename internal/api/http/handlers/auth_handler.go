package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/api/dto"
	"github.com/suporte-ti/helpdesk/internal/auth"
	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/service"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	session, err := h.auth.SignUp(c.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
		Sector:   req.Sector,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	session, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// SignOut handles POST /auth/signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	if err := h.auth.SignOut(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session handles GET /auth/session: the explicit current-session
// query. Responds with null data when no valid session exists.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	user, profile, err := h.auth.CurrentSession(c.Context(), token)
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		User:    dto.NewUserResponse(user),
		Profile: dto.NewProfileResponse(profile),
	}})
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	expiresAt := session.ExpiresAt
	return dto.SessionResponse{
		User:      dto.NewUserResponse(session.User),
		Profile:   dto.NewProfileResponse(session.Profile),
		Token:     session.Token,
		ExpiresAt: &expiresAt,
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
