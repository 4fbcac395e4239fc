package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CityRepository manages persistence for service cities.
type CityRepository interface {
	Create(ctx context.Context, city *domain.City) error
	Update(ctx context.Context, city *domain.City) error
	GetByID(ctx context.Context, id string) (*domain.City, error)
	List(ctx context.Context, activeOnly bool) ([]domain.City, error)
}

type cityRepository struct {
	pool *pgxpool.Pool
}

// NewCityRepository constructs repository.
func NewCityRepository(pool *pgxpool.Pool) CityRepository {
	return &cityRepository{pool: pool}
}

func (r *cityRepository) Create(ctx context.Context, city *domain.City) error {
	const query = `
        INSERT INTO cities (name, state, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		city.Name,
		city.State,
		city.IsActive,
	).Scan(&city.ID, &city.CreatedAt)
}

func (r *cityRepository) Update(ctx context.Context, city *domain.City) error {
	const query = `
        UPDATE cities SET name=$1, state=$2, is_active=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, city.Name, city.State, city.IsActive, city.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	const query = `
        SELECT id, name, state, is_active, created_at
        FROM cities WHERE id=$1`
	var city domain.City
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&city.ID,
		&city.Name,
		&city.State,
		&city.IsActive,
		&city.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *cityRepository) List(ctx context.Context, activeOnly bool) ([]domain.City, error) {
	query := `SELECT id, name, state, is_active, created_at FROM cities`
	if activeOnly {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.City
	for rows.Next() {
		var city domain.City
		if err := rows.Scan(&city.ID, &city.Name, &city.State, &city.IsActive, &city.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, city)
	}
	return result, rows.Err()
}
