package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// MenuEntry is the rendered navigation item handed to clients. It carries
// no row identity so catalog-backed and static menus are indistinguishable
// to consumers.
type MenuEntry struct {
	ItemID    string  `json:"itemId"`
	Label     string  `json:"label"`
	Icon      string  `json:"icon,omitempty"`
	Href      *string `json:"href,omitempty"`
	ParentID  *string `json:"parentId,omitempty"`
	SortOrder int     `json:"sortOrder"`
}

// MenuProvider resolves the navigation menu for a role name.
type MenuProvider interface {
	MenuForRole(ctx context.Context, role string) ([]MenuEntry, error)
}

// CatalogMenuProvider serves menus from the menu_items table with a
// read-through Redis cache keyed by role name. Cache failures degrade to
// the database, never to an error.
type CatalogMenuProvider struct {
	roles     repository.RoleRepository
	menuItems repository.MenuItemRepository
	cache     *persistence.Redis
	ttl       time.Duration
	logger    *zap.Logger
}

// NewCatalogMenuProvider creates the provider. cache may be nil.
func NewCatalogMenuProvider(roles repository.RoleRepository, menuItems repository.MenuItemRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *CatalogMenuProvider {
	return &CatalogMenuProvider{roles: roles, menuItems: menuItems, cache: cache, ttl: ttl, logger: logger}
}

func menuCacheKey(role string) string {
	return "menu:" + role
}

// MenuForRole returns the role's active menu entries in sort order.
func (p *CatalogMenuProvider) MenuForRole(ctx context.Context, role string) ([]MenuEntry, error) {
	if cached, ok := p.fromCache(ctx, role); ok {
		return cached, nil
	}

	roleRow, err := p.roles.GetByName(ctx, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role": role})
		}
		return nil, err
	}
	items, err := p.menuItems.ListForRole(ctx, roleRow.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]MenuEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, toMenuEntry(item))
	}
	p.toCache(ctx, role, entries)
	return entries, nil
}

// InvalidateRole drops the cached menu for a role. Safe with a nil cache.
func (p *CatalogMenuProvider) InvalidateRole(ctx context.Context, role string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Del(ctx, menuCacheKey(role)); err != nil {
		p.logger.Warn("menu cache invalidation failed", zap.String("role", role), zap.Error(err))
	}
}

func (p *CatalogMenuProvider) fromCache(ctx context.Context, role string) ([]MenuEntry, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, err := p.cache.Get(ctx, menuCacheKey(role))
	if err != nil {
		return nil, false
	}
	var entries []MenuEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		p.logger.Warn("dropping corrupt menu cache entry", zap.String("role", role), zap.Error(err))
		_ = p.cache.Del(ctx, menuCacheKey(role))
		return nil, false
	}
	return entries, true
}

func (p *CatalogMenuProvider) toCache(ctx context.Context, role string, entries []MenuEntry) {
	if p.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, menuCacheKey(role), string(raw), p.ttl); err != nil {
		p.logger.Warn("menu cache write failed", zap.String("role", role), zap.Error(err))
	}
}

func toMenuEntry(item domain.MenuItem) MenuEntry {
	return MenuEntry{
		ItemID:    item.ItemID,
		Label:     item.Label,
		Icon:      item.Icon,
		Href:      item.Href,
		ParentID:  item.ParentID,
		SortOrder: item.SortOrder,
	}
}

// FallbackMenuProvider tries its primary provider and falls back to a
// secondary when the primary errors or comes back empty. An empty catalog
// menu means the role was never seeded, not that the role should see
// nothing.
type FallbackMenuProvider struct {
	primary  MenuProvider
	fallback MenuProvider
	logger   *zap.Logger
}

// NewFallbackMenuProvider wires the chain.
func NewFallbackMenuProvider(primary, fallback MenuProvider, logger *zap.Logger) *FallbackMenuProvider {
	return &FallbackMenuProvider{primary: primary, fallback: fallback, logger: logger}
}

// MenuForRole resolves through the chain.
func (p *FallbackMenuProvider) MenuForRole(ctx context.Context, role string) ([]MenuEntry, error) {
	entries, err := p.primary.MenuForRole(ctx, role)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		p.logger.Warn("primary menu provider failed, using static menu", zap.String("role", role), zap.Error(err))
	}
	return p.fallback.MenuForRole(ctx, role)
}
