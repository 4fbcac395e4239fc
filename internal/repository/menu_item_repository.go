package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// MenuItemRepository manages persistence for per-role navigation entries.
type MenuItemRepository interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	// ListForRole returns active items ordered by sort_order; ties are
	// broken by insertion order.
	ListForRole(ctx context.Context, roleID string) ([]domain.MenuItem, error)
}

type menuItemRepository struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository constructs repository.
func NewMenuItemRepository(pool *pgxpool.Pool) MenuItemRepository {
	return &menuItemRepository{pool: pool}
}

func (r *menuItemRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        INSERT INTO menu_items (role_id, item_id, label, icon, href, parent_id, sort_order, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		item.RoleID,
		item.ItemID,
		item.Label,
		item.Icon,
		item.Href,
		item.ParentID,
		item.SortOrder,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *menuItemRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        UPDATE menu_items
        SET item_id=$1, label=$2, icon=$3, href=$4, parent_id=$5, sort_order=$6, is_active=$7
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		item.ItemID,
		item.Label,
		item.Icon,
		item.Href,
		item.ParentID,
		item.SortOrder,
		item.IsActive,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuItemRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	const query = `
        SELECT id, role_id, item_id, label, icon, href, parent_id, sort_order, is_active, created_at
        FROM menu_items WHERE id=$1`
	var item domain.MenuItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.RoleID,
		&item.ItemID,
		&item.Label,
		&item.Icon,
		&item.Href,
		&item.ParentID,
		&item.SortOrder,
		&item.IsActive,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) ListForRole(ctx context.Context, roleID string) ([]domain.MenuItem, error) {
	const query = `
        SELECT id, role_id, item_id, label, icon, href, parent_id, sort_order, is_active, created_at
        FROM menu_items
        WHERE role_id=$1 AND is_active=TRUE
        ORDER BY sort_order, created_at, id`
	rows, err := r.pool.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.RoleID,
			&item.ItemID,
			&item.Label,
			&item.Icon,
			&item.Href,
			&item.ParentID,
			&item.SortOrder,
			&item.IsActive,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
