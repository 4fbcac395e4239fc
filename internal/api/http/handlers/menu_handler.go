package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// MenuHandler serves the navigation menu for the authenticated principal.
type MenuHandler struct {
	menu service.MenuProvider
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menu service.MenuProvider) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// Mine handles GET /menu. The menu is derived from the principal's role;
// clients never pick a role themselves.
func (h *MenuHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	entries, err := h.menu.MenuForRole(c.UserContext(), principal.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
