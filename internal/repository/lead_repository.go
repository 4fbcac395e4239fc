package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// LeadRepository encapsulates lead persistence. The coupled two-entity
// transitions (project move + lead write) run inside a single transaction
// here, so callers never observe one half applied without the other.
type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Lead, error)
	ListByDesigner(ctx context.Context, designerID string) ([]domain.Lead, error)
	// AssignDesigner moves the project lead->assigned and creates the lead
	// row in one transaction. Returns applied=false when the project is no
	// longer in `lead`.
	AssignDesigner(ctx context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error)
	// ReassignDesigner creates a fresh lead for an already-assigned project
	// (after a decline), pointing the project at the new designer.
	ReassignDesigner(ctx context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error)
	// Respond moves the lead assigned->accepted|declined; on accept the
	// parent project moves assigned->in_progress in the same transaction.
	Respond(ctx context.Context, leadID, projectID string, decision domain.LeadStatus, now time.Time) (bool, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	const query = `
        SELECT id, project_id, designer_id, assigned_by_id, status, assigned_at, responded_at, created_at
        FROM leads WHERE id=$1`
	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.ProjectID,
		&lead.DesignerID,
		&lead.AssignedByID,
		&lead.Status,
		&lead.AssignedAt,
		&lead.RespondedAt,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Lead, error) {
	const query = `
        SELECT id, project_id, designer_id, assigned_by_id, status, assigned_at, responded_at, created_at
        FROM leads WHERE project_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *leadRepository) ListByDesigner(ctx context.Context, designerID string) ([]domain.Lead, error) {
	const query = `
        SELECT id, project_id, designer_id, assigned_by_id, status, assigned_at, responded_at, created_at
        FROM leads WHERE designer_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, designerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *leadRepository) AssignDesigner(ctx context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error) {
	return r.assignInTx(ctx, projectID, designerID, assignedByID, now, domain.ProjectStatusLead, domain.ProjectStatusAssigned)
}

func (r *leadRepository) ReassignDesigner(ctx context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error) {
	return r.assignInTx(ctx, projectID, designerID, assignedByID, now, domain.ProjectStatusAssigned, domain.ProjectStatusAssigned)
}

func (r *leadRepository) assignInTx(ctx context.Context, projectID, designerID, assignedByID string, now time.Time, expect, next domain.ProjectStatus) (*domain.Lead, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `
        UPDATE projects SET status=$3, designer_id=$4, updated_at=NOW()
        WHERE id=$1 AND status=$2`,
		projectID, expect, next, designerID)
	if err != nil {
		return nil, false, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, false, nil
	}

	lead := &domain.Lead{
		ProjectID:    projectID,
		DesignerID:   &designerID,
		AssignedByID: &assignedByID,
		Status:       domain.LeadStatusAssigned,
		AssignedAt:   &now,
	}
	if err := tx.QueryRow(ctx, `
        INSERT INTO leads (project_id, designer_id, assigned_by_id, status, assigned_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`,
		lead.ProjectID, lead.DesignerID, lead.AssignedByID, lead.Status, lead.AssignedAt,
	).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return lead, true, nil
}

func (r *leadRepository) Respond(ctx context.Context, leadID, projectID string, decision domain.LeadStatus, now time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `
        UPDATE leads SET status=$3, responded_at=$4
        WHERE id=$1 AND status=$2`,
		leadID, domain.LeadStatusAssigned, decision, now)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	if decision == domain.LeadStatusAccepted {
		cmd, err = tx.Exec(ctx, `
            UPDATE projects SET status=$3, updated_at=NOW()
            WHERE id=$1 AND status=$2`,
			projectID, domain.ProjectStatusAssigned, domain.ProjectStatusInProgress)
		if err != nil {
			return false, err
		}
		if cmd.RowsAffected() == 0 {
			// Project moved under us; roll the lead change back too.
			return false, nil
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	var result []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.ProjectID,
			&lead.DesignerID,
			&lead.AssignedByID,
			&lead.Status,
			&lead.AssignedAt,
			&lead.RespondedAt,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
