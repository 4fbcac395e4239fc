package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// PermissionRepository handles persistence for catalog permissions.
type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	List(ctx context.Context, module *string) ([]domain.Permission, error)
	Delete(ctx context.Context, id string) error
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository instantiates the repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	const query = `
        INSERT INTO permissions (name, display_name, description, module, action, resource)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		permission.Name,
		permission.DisplayName,
		permission.Description,
		permission.Module,
		permission.Action,
		permission.Resource,
	).Scan(&permission.ID, &permission.CreatedAt)
}

func (r *permissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	const query = `
        SELECT id, name, display_name, description, module, action, resource, created_at
        FROM permissions WHERE id=$1`
	var permission domain.Permission
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&permission.ID,
		&permission.Name,
		&permission.DisplayName,
		&permission.Description,
		&permission.Module,
		&permission.Action,
		&permission.Resource,
		&permission.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) List(ctx context.Context, module *string) ([]domain.Permission, error) {
	query := `
        SELECT id, name, display_name, description, module, action, resource, created_at
        FROM permissions`
	args := []any{}
	if module != nil {
		args = append(args, *module)
		query += ` WHERE module=$1`
	}
	query += ` ORDER BY module, action`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func (r *permissionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPermissions(rows pgx.Rows) ([]domain.Permission, error) {
	var result []domain.Permission
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(
			&permission.ID,
			&permission.Name,
			&permission.DisplayName,
			&permission.Description,
			&permission.Module,
			&permission.Action,
			&permission.Resource,
			&permission.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, permission)
	}
	return result, rows.Err()
}
