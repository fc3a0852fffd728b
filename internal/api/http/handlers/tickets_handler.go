package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/api/dto"
	"github.com/suporte-ti/helpdesk/internal/auth"
	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/service"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), principal.Profile, service.CreateTicketInput{
		Title:         req.Title,
		Description:   req.Description,
		Sector:        req.Sector,
		ProblemTypeID: req.ProblemTypeID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	filter := service.ListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		filter.Status = &status
	}
	if sector := c.Query("sector"); sector != "" {
		filter.Sector = &sector
	}
	if problemTypeID := c.Query("problem_type_id"); problemTypeID != "" {
		filter.ProblemTypeID = &problemTypeID
	}

	tickets, err := h.tickets.List(c.Context(), principal.Profile, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Get(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Accept handles POST /tickets/:id/accept.
func (h *TicketsHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Accept(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Complete handles POST /tickets/:id/complete.
func (h *TicketsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CompleteTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Complete(c.Context(), principal.Profile, c.Params("id"), req.Diagnosis)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Reject handles POST /tickets/:id/reject.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.RejectTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Reject(c.Context(), principal.Profile, c.Params("id"), req.RejectionReason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// CheckDuplicates handles GET /tickets/duplicates. Returns the caller's
// active tickets matching the (sector, problem type) pair.
func (h *TicketsHandler) CheckDuplicates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	sector := c.Query("sector")
	problemTypeID := c.Query("problem_type_id")
	if sector == "" || problemTypeID == "" {
		return util.NewValidationError("sector and problem_type_id required", nil)
	}

	duplicates, err := h.tickets.CheckDuplicates(c.Context(), principal.User.ID, sector, problemTypeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": len(duplicates)}})
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	entries, err := h.tickets.History(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewTicketHistoryResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListProblemTypes handles GET /problem-types.
func (h *TicketsHandler) ListProblemTypes(c *fiber.Ctx) error {
	types, err := h.tickets.ListProblemTypes(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ProblemTypeResponse, 0, len(types))
	for _, pt := range types {
		items = append(items, dto.NewProblemTypeResponse(pt))
	}
	return c.JSON(fiber.Map{"data": items})
}
