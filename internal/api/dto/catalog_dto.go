package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RoleRequest payload for role create/update.
type RoleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

// NewRoleResponse maps the domain model.
func NewRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Level:       role.Level,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt.Format(time.RFC3339),
	}
}

// NewRoleListResponse maps a slice.
func NewRoleListResponse(roles []domain.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, NewRoleResponse(&roles[i]))
	}
	return out
}

// PermissionRequest payload for permission creation.
type PermissionRequest struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description"`
	Module      string  `json:"module"`
	Action      string  `json:"action"`
	Resource    *string `json:"resource,omitempty"`
}

// PermissionResponse is the public view of a permission.
type PermissionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description,omitempty"`
	Module      string  `json:"module"`
	Action      string  `json:"action"`
	Resource    *string `json:"resource,omitempty"`
}

// NewPermissionResponse maps the domain model.
func NewPermissionResponse(permission *domain.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          permission.ID,
		Name:        permission.Name,
		DisplayName: permission.DisplayName,
		Description: permission.Description,
		Module:      permission.Module,
		Action:      permission.Action,
		Resource:    permission.Resource,
	}
}

// NewPermissionListResponse maps a slice.
func NewPermissionListResponse(permissions []domain.Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(permissions))
	for i := range permissions {
		out = append(out, NewPermissionResponse(&permissions[i]))
	}
	return out
}

// AssignPermissionsRequest replaces a role's permission set.
type AssignPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds"`
}

// MenuItemRequest payload for menu item create/update.
type MenuItemRequest struct {
	RoleID    string  `json:"roleId"`
	ItemID    string  `json:"itemId"`
	Label     string  `json:"label"`
	Icon      string  `json:"icon"`
	Href      *string `json:"href,omitempty"`
	ParentID  *string `json:"parentId,omitempty"`
	SortOrder int     `json:"sortOrder"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// MenuItemResponse is the catalog view of a menu item row.
type MenuItemResponse struct {
	ID        string  `json:"id"`
	RoleID    string  `json:"roleId"`
	ItemID    string  `json:"itemId"`
	Label     string  `json:"label"`
	Icon      string  `json:"icon,omitempty"`
	Href      *string `json:"href,omitempty"`
	ParentID  *string `json:"parentId,omitempty"`
	SortOrder int     `json:"sortOrder"`
	IsActive  bool    `json:"isActive"`
}

// NewMenuItemResponse maps the domain model.
func NewMenuItemResponse(item *domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:        item.ID,
		RoleID:    item.RoleID,
		ItemID:    item.ItemID,
		Label:     item.Label,
		Icon:      item.Icon,
		Href:      item.Href,
		ParentID:  item.ParentID,
		SortOrder: item.SortOrder,
		IsActive:  item.IsActive,
	}
}

// NewMenuItemListResponse maps a slice.
func NewMenuItemListResponse(items []domain.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewMenuItemResponse(&items[i]))
	}
	return out
}
