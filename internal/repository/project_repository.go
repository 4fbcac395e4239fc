package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProjectFilter captures project search parameters.
type ProjectFilter struct {
	CityID     *string
	DesignerID *string
	CustomerID *string
	Statuses   []domain.ProjectStatus
	Limit      int
	Offset     int
}

// ProjectRepository encapsulates project persistence. Status changes are
// conditional updates: they apply only when the row still holds the
// expected prior status, so concurrent writers lose cleanly instead of
// overwriting each other.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) (bool, error)
	// Complete moves review->completed and converts the project's accepted
	// leads in the same transaction.
	Complete(ctx context.Context, id string) (bool, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, title, description, customer_id, designer_id, city_id, budget, status, timeline_months, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (title, description, customer_id, designer_id, city_id, budget, status, timeline_months)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.CustomerID,
		project.DesignerID,
		project.CityID,
		project.Budget,
		project.Status,
		project.TimelineMonths,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id=$1`, projectColumns)
	var project domain.Project
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.CustomerID,
		&project.DesignerID,
		&project.CityID,
		&project.Budget,
		&project.Status,
		&project.TimelineMonths,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	base := fmt.Sprintf(`SELECT %s FROM projects`, projectColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CityID != nil {
		args = append(args, *filter.CityID)
		clauses = append(clauses, fmt.Sprintf("city_id=$%d", len(args)))
	}
	if filter.DesignerID != nil {
		args = append(args, *filter.DesignerID)
		clauses = append(clauses, fmt.Sprintf("designer_id=$%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) (bool, error) {
	const query = `
        UPDATE projects SET status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$2`
	cmd, err := r.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *projectRepository) Complete(ctx context.Context, id string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `
        UPDATE projects SET status=$2, updated_at=NOW()
        WHERE id=$1 AND status=$3`,
		id, domain.ProjectStatusCompleted, domain.ProjectStatusReview)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
        UPDATE leads SET status=$2
        WHERE project_id=$1 AND status=$3`,
		id, domain.LeadStatusConverted, domain.LeadStatusAccepted); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.CustomerID,
			&project.DesignerID,
			&project.CityID,
			&project.Budget,
			&project.Status,
			&project.TimelineMonths,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}
