package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// CatalogHandler exposes role, permission and menu item administration.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListRoles handles GET /catalog/roles.
func (h *CatalogHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.catalog.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleListResponse(roles)})
}

// CreateRole handles POST /catalog/roles.
func (h *CatalogHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := &domain.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Level:       req.Level,
		IsActive:    true,
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}
	if err := h.catalog.CreateRole(c.UserContext(), role); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// UpdateRole handles PUT /catalog/roles/:id.
func (h *CatalogHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	existing, err := h.catalog.GetRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	existing.Name = req.Name
	existing.DisplayName = req.DisplayName
	existing.Description = req.Description
	existing.Level = req.Level
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if err := h.catalog.UpdateRole(c.UserContext(), existing); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(existing)})
}

// ListPermissions handles GET /catalog/permissions.
func (h *CatalogHandler) ListPermissions(c *fiber.Ctx) error {
	var module *string
	if m := c.Query("module"); m != "" {
		module = &m
	}
	permissions, err := h.catalog.ListPermissions(c.UserContext(), module)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPermissionListResponse(permissions)})
}

// CreatePermission handles POST /catalog/permissions.
func (h *CatalogHandler) CreatePermission(c *fiber.Ctx) error {
	var req dto.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	permission := &domain.Permission{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Module:      req.Module,
		Action:      req.Action,
		Resource:    req.Resource,
	}
	if err := h.catalog.CreatePermission(c.UserContext(), permission); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPermissionResponse(permission)})
}

// DeletePermission handles DELETE /catalog/permissions/:id.
func (h *CatalogHandler) DeletePermission(c *fiber.Ctx) error {
	if err := h.catalog.DeletePermission(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignPermissions handles PUT /catalog/roles/:id/permissions.
func (h *CatalogHandler) AssignPermissions(c *fiber.Ctx) error {
	var req dto.AssignPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	roleID := c.Params("id")
	if err := h.catalog.AssignPermissions(c.UserContext(), roleID, req.PermissionIDs); err != nil {
		return err
	}
	permissions, err := h.catalog.RolePermissions(c.UserContext(), roleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPermissionListResponse(permissions)})
}

// RolePermissions handles GET /catalog/roles/:id/permissions.
func (h *CatalogHandler) RolePermissions(c *fiber.Ctx) error {
	permissions, err := h.catalog.RolePermissions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPermissionListResponse(permissions)})
}

// ListMenuItems handles GET /catalog/roles/:id/menu-items.
func (h *CatalogHandler) ListMenuItems(c *fiber.Ctx) error {
	items, err := h.catalog.MenuItemsForRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMenuItemListResponse(items)})
}

// CreateMenuItem handles POST /catalog/menu-items.
func (h *CatalogHandler) CreateMenuItem(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item := menuItemFromRequest(req)
	if err := h.catalog.CreateMenuItem(c.UserContext(), item); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMenuItemResponse(item)})
}

// UpdateMenuItem handles PUT /catalog/menu-items/:id.
func (h *CatalogHandler) UpdateMenuItem(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item := menuItemFromRequest(req)
	item.ID = c.Params("id")
	if err := h.catalog.UpdateMenuItem(c.UserContext(), item); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMenuItemResponse(item)})
}

func menuItemFromRequest(req dto.MenuItemRequest) *domain.MenuItem {
	item := &domain.MenuItem{
		RoleID:    req.RoleID,
		ItemID:    req.ItemID,
		Label:     req.Label,
		Icon:      req.Icon,
		Href:      req.Href,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	return item
}
