package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// MenuCacheInvalidator drops cached menus after catalog writes.
type MenuCacheInvalidator interface {
	InvalidateRole(ctx context.Context, roleName string)
}

// CatalogService exposes CRUD over roles, permissions, their edges and
// menu items. Writes against missing ids fail loudly; the catalog never
// silently no-ops.
type CatalogService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	menuItems   repository.MenuItemRepository
	menuCache   MenuCacheInvalidator
	logger      *zap.Logger
}

// CatalogDependencies bundles repositories.
type CatalogDependencies struct {
	RoleRepo       repository.RoleRepository
	PermissionRepo repository.PermissionRepository
	MenuItemRepo   repository.MenuItemRepository
	MenuCache      MenuCacheInvalidator
	Logger         *zap.Logger
}

// NewCatalogService creates the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		roles:       deps.RoleRepo,
		permissions: deps.PermissionRepo,
		menuItems:   deps.MenuItemRepo,
		menuCache:   deps.MenuCache,
		logger:      deps.Logger,
	}
}

// CreateRole registers a new hierarchy entry.
func (s *CatalogService) CreateRole(ctx context.Context, role *domain.Role) error {
	if strings.TrimSpace(role.Name) == "" || strings.TrimSpace(role.DisplayName) == "" {
		return apperrors.NewValidationError("name and display name are required", nil)
	}
	if role.Level <= 0 {
		return apperrors.NewValidationError("level must be positive", map[string]any{"level": role.Level})
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return apperrors.NewCatalogWriteFailed(err)
	}
	return nil
}

// UpdateRole mutates an existing role.
func (s *CatalogService) UpdateRole(ctx context.Context, role *domain.Role) error {
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("role", map[string]any{"role_id": role.ID})
		}
		return apperrors.NewCatalogWriteFailed(err)
	}
	s.invalidateMenu(ctx, role.Name)
	return nil
}

// GetRole loads a role by id.
func (s *CatalogService) GetRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role_id": roleID})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// ListRoles returns every role, highest level first.
func (s *CatalogService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	result, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// CreatePermission registers a module/action/resource triple.
func (s *CatalogService) CreatePermission(ctx context.Context, permission *domain.Permission) error {
	if strings.TrimSpace(permission.Module) == "" || strings.TrimSpace(permission.Action) == "" {
		return apperrors.NewValidationError("module and action are required", nil)
	}
	if err := s.permissions.Create(ctx, permission); err != nil {
		return apperrors.NewCatalogWriteFailed(err)
	}
	return nil
}

// DeletePermission retires a catalog permission.
func (s *CatalogService) DeletePermission(ctx context.Context, permissionID string) error {
	if err := s.permissions.Delete(ctx, permissionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("permission", map[string]any{"permission_id": permissionID})
		}
		return apperrors.NewCatalogWriteFailed(err)
	}
	return nil
}

// ListPermissions lists permissions, optionally filtered by module.
func (s *CatalogService) ListPermissions(ctx context.Context, module *string) ([]domain.Permission, error) {
	result, err := s.permissions.List(ctx, module)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// AssignPermissions replaces the role's full permission edge set. Edges not
// in permissionIDs are removed; this is never additive-only.
func (s *CatalogService) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if err := s.roles.ReplacePermissions(ctx, roleID, permissionIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("role or permission", map[string]any{"role_id": roleID})
		}
		return apperrors.NewCatalogWriteFailed(err)
	}
	return nil
}

// RolePermissions lists the permissions currently assigned to a role.
func (s *CatalogService) RolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	result, err := s.roles.ListPermissions(ctx, roleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// CreateMenuItem adds a navigation entry for a role.
func (s *CatalogService) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	role, err := s.GetRole(ctx, item.RoleID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(item.ItemID) == "" || strings.TrimSpace(item.Label) == "" {
		return apperrors.NewValidationError("item id and label are required", nil)
	}
	if err := s.menuItems.Create(ctx, item); err != nil {
		return apperrors.NewCatalogWriteFailed(err)
	}
	s.invalidateMenu(ctx, role.Name)
	return nil
}

// UpdateMenuItem mutates a navigation entry.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	existing, err := s.menuItems.GetByID(ctx, item.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("menu item", map[string]any{"menu_item_id": item.ID})
		}
		return apperrors.MapError(err)
	}
	if err := s.menuItems.Update(ctx, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("menu item", map[string]any{"menu_item_id": item.ID})
		}
		return apperrors.NewCatalogWriteFailed(err)
	}
	if role, err := s.roles.GetByID(ctx, existing.RoleID); err == nil {
		s.invalidateMenu(ctx, role.Name)
	}
	return nil
}

// MenuItemsForRole returns the active, ordered navigation entries.
func (s *CatalogService) MenuItemsForRole(ctx context.Context, roleID string) ([]domain.MenuItem, error) {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	result, err := s.menuItems.ListForRole(ctx, roleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *CatalogService) invalidateMenu(ctx context.Context, roleName string) {
	if s.menuCache == nil {
		return
	}
	s.menuCache.InvalidateRole(ctx, roleName)
}
