package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// AccountsHandler exposes the approval queue and the principal's own view.
type AccountsHandler struct {
	workflow *service.WorkflowService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(workflow *service.WorkflowService) *AccountsHandler {
	return &AccountsHandler{workflow: workflow}
}

// Me handles GET /accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(principal)})
}

// ListPending handles GET /accounts/pending.
func (h *AccountsHandler) ListPending(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	accounts, err := h.workflow.ListPendingAccounts(c.UserContext(), principal)
	if err != nil {
		return err
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Approve handles PATCH /accounts/:id/approval.
func (h *AccountsHandler) Approve(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.workflow.ApproveAccount(c.UserContext(), principal, c.Params("id"), req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}
