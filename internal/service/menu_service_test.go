package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

type memMenuItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.MenuItem
}

func newMemMenuItemRepo() *memMenuItemRepo {
	return &memMenuItemRepo{items: map[string]*domain.MenuItem{}}
}

func (r *memMenuItemRepo) Create(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	r.items[item.ID] = item
	return nil
}

func (r *memMenuItemRepo) Update(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.items[item.ID] = item
	return nil
}

func (r *memMenuItemRepo) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (r *memMenuItemRepo) ListForRole(_ context.Context, roleID string) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MenuItem
	for _, item := range r.items {
		if item.RoleID == roleID && item.IsActive {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

type stubMenuProvider struct {
	entries []MenuEntry
	err     error
}

func (p *stubMenuProvider) MenuForRole(context.Context, string) ([]MenuEntry, error) {
	return p.entries, p.err
}

func TestStaticMenuProvider(t *testing.T) {
	provider := NewStaticMenuProvider()

	entries, err := provider.MenuForRole(context.Background(), domain.RoleDesigner)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "dashboard", entries[0].ItemID)

	unknown, err := provider.MenuForRole(context.Background(), "archduke")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestCatalogMenuProviderOrdersItems(t *testing.T) {
	roles := newMemRoleRepo()
	items := newMemMenuItemRepo()
	provider := NewCatalogMenuProvider(roles, items, nil, 0, zap.NewNop())
	ctx := context.Background()

	role, err := roles.GetByName(ctx, domain.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, items.Create(ctx, &domain.MenuItem{RoleID: role.ID, ItemID: "second", Label: "Second", SortOrder: 2, IsActive: true}))
	require.NoError(t, items.Create(ctx, &domain.MenuItem{RoleID: role.ID, ItemID: "first", Label: "First", SortOrder: 1, IsActive: true}))
	require.NoError(t, items.Create(ctx, &domain.MenuItem{RoleID: role.ID, ItemID: "hidden", Label: "Hidden", SortOrder: 0, IsActive: false}))

	entries, err := provider.MenuForRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].ItemID)
	assert.Equal(t, "second", entries[1].ItemID)

	_, err = provider.MenuForRole(ctx, "archduke")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestFallbackMenuProvider(t *testing.T) {
	fallbackEntries := []MenuEntry{{ItemID: "dashboard", Label: "Dashboard"}}
	fallback := &stubMenuProvider{entries: fallbackEntries}
	ctx := context.Background()

	// primary failure falls back
	chain := NewFallbackMenuProvider(&stubMenuProvider{err: errors.New("db down")}, fallback, zap.NewNop())
	entries, err := chain.MenuForRole(ctx, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, fallbackEntries, entries)

	// an unseeded role falls back too
	chain = NewFallbackMenuProvider(&stubMenuProvider{}, fallback, zap.NewNop())
	entries, err = chain.MenuForRole(ctx, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, fallbackEntries, entries)

	// a populated primary wins
	primaryEntries := []MenuEntry{{ItemID: "projects", Label: "Projects"}}
	chain = NewFallbackMenuProvider(&stubMenuProvider{entries: primaryEntries}, fallback, zap.NewNop())
	entries, err = chain.MenuForRole(ctx, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, primaryEntries, entries)
}
