package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// ProjectsHandler exposes the project lifecycle.
type ProjectsHandler struct {
	workflow *service.WorkflowService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(workflow *service.WorkflowService) *ProjectsHandler {
	return &ProjectsHandler{workflow: workflow}
}

// Create handles POST /projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.workflow.CreateProject(c.UserContext(), principal, service.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		CityID:         req.CityID,
		Budget:         req.Budget,
		TimelineMonths: req.TimelineMonths,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// List handles GET /projects. Non-elevated callers are scoped to their own
// projects by the service regardless of filters supplied here.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	filter := repository.ProjectFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if cityID := c.Query("cityId"); cityID != "" {
		filter.CityID = &cityID
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.ProjectStatus(strings.TrimSpace(s)))
		}
	}

	projects, err := h.workflow.ListProjects(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectListResponse(projects)})
}

// Get handles GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	project, err := h.workflow.GetProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Assign handles POST /projects/:id/assign.
func (h *ProjectsHandler) Assign(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AssignDesignerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.workflow.AssignDesigner(c.UserContext(), principal, c.Params("id"), req.DesignerID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}

// Reassign handles POST /projects/:id/reassign.
func (h *ProjectsHandler) Reassign(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AssignDesignerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.workflow.Reassign(c.UserContext(), principal, c.Params("id"), req.DesignerID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}

// StartReview handles POST /projects/:id/review.
func (h *ProjectsHandler) StartReview(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.workflow.StartReview(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Complete handles POST /projects/:id/complete.
func (h *ProjectsHandler) Complete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.workflow.CompleteProject(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Cancel handles POST /projects/:id/cancel.
func (h *ProjectsHandler) Cancel(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.workflow.CancelProject(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Leads handles GET /projects/:id/leads.
func (h *ProjectsHandler) Leads(c *fiber.Ctx) error {
	leads, err := h.workflow.ListProjectLeads(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadListResponse(leads)})
}
