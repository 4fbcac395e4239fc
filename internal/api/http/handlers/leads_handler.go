package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// LeadsHandler exposes the designer side of the assignment workflow.
type LeadsHandler struct {
	workflow *service.WorkflowService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(workflow *service.WorkflowService) *LeadsHandler {
	return &LeadsHandler{workflow: workflow}
}

// Mine handles GET /leads/mine.
func (h *LeadsHandler) Mine(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	leads, err := h.workflow.ListMyLeads(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadListResponse(leads)})
}

// Respond handles POST /leads/:id/respond.
func (h *LeadsHandler) Respond(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.workflow.RespondToAssignment(c.UserContext(), principal, c.Params("id"), domain.LeadStatus(req.Decision))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}
