package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// WorkflowService drives the coupled project/lead state machines. Every
// mutation is role-gated, ownership-checked where the operation targets a
// specific resource, applied via conditional updates, and publishes an
// event only when the transition actually applied.
type WorkflowService struct {
	projects   repository.ProjectRepository
	leads      repository.LeadRepository
	accounts   repository.AccountRepository
	authorizer *auth.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// WorkflowDependencies bundles repositories and collaborators.
type WorkflowDependencies struct {
	ProjectRepo repository.ProjectRepository
	LeadRepo    repository.LeadRepository
	AccountRepo repository.AccountRepository
	Authorizer  *auth.Authorizer
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewWorkflowService creates the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		projects:   deps.ProjectRepo,
		leads:      deps.LeadRepo,
		accounts:   deps.AccountRepo,
		authorizer: deps.Authorizer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (s *WorkflowService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateProjectInput carries intake parameters.
type CreateProjectInput struct {
	Title          string
	Description    string
	CityID         string
	Budget         *float64
	TimelineMonths *int
}

// CreateProject registers a new project in `lead` status for the acting
// customer.
func (s *WorkflowService) CreateProject(ctx context.Context, actor *domain.Account, input CreateProjectInput) (*domain.Project, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleCustomer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.CityID) == "" {
		return nil, apperrors.NewValidationError("title and city are required", nil)
	}

	project := &domain.Project{
		Title:          input.Title,
		Description:    input.Description,
		CustomerID:     actor.ID,
		CityID:         input.CityID,
		Budget:         input.Budget,
		Status:         domain.ProjectStatusLead,
		TimelineMonths: input.TimelineMonths,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// GetProject loads a single project.
func (s *WorkflowService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// ListProjects returns projects visible to the actor: elevated roles see
// everything, customers and designers only their own.
func (s *WorkflowService) ListProjects(ctx context.Context, actor *domain.Account, filter repository.ProjectFilter) ([]domain.Project, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !auth.CanBypassOwnership(actor) && actor.Role != domain.RoleEmployee {
		switch actor.Role {
		case domain.RoleDesigner, domain.RoleVendor:
			filter.DesignerID = &actor.ID
		default:
			filter.CustomerID = &actor.ID
		}
	}
	result, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// AssignDesigner moves a project lead->assigned and creates the paired
// lead record as one unit (ADMIN tier).
func (s *WorkflowService) AssignDesigner(ctx context.Context, actor *domain.Account, projectID, designerID string) (*domain.Lead, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	designer, err := s.loadDesigner(ctx, designerID)
	if err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectStatusLead {
		return nil, apperrors.NewInvalidTransition("project", string(project.Status), string(domain.ProjectStatusAssigned))
	}

	lead, applied, err := s.leads.AssignDesigner(ctx, projectID, designer.ID, actor.ID, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("project changed concurrently", map[string]any{"project_id": projectID})
	}

	s.publishEvent(ctx, events.EventLeadAssigned, actor.ID, events.LeadAssignedPayload{
		LeadID:       lead.ID,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		DesignerID:   designer.ID,
		AssignedByID: actor.ID,
	})
	return lead, nil
}

// Reassign creates a fresh lead for a different designer after the current
// lead was declined (ADMIN tier). Decline is terminal; the prior lead is
// never reopened.
func (s *WorkflowService) Reassign(ctx context.Context, actor *domain.Account, projectID, designerID string) (*domain.Lead, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	designer, err := s.loadDesigner(ctx, designerID)
	if err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectStatusAssigned {
		return nil, apperrors.NewInvalidTransition("project", string(project.Status), string(domain.ProjectStatusAssigned))
	}

	history, err := s.leads.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(history) == 0 || history[0].Status != domain.LeadStatusDeclined {
		current := domain.LeadStatusNew
		if len(history) > 0 {
			current = history[0].Status
		}
		return nil, apperrors.NewInvalidTransition("lead", string(current), string(domain.LeadStatusAssigned))
	}

	lead, applied, err := s.leads.ReassignDesigner(ctx, projectID, designer.ID, actor.ID, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("project changed concurrently", map[string]any{"project_id": projectID})
	}

	s.publishEvent(ctx, events.EventLeadAssigned, actor.ID, events.LeadAssignedPayload{
		LeadID:       lead.ID,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		DesignerID:   designer.ID,
		AssignedByID: actor.ID,
	})
	return lead, nil
}

// RespondToAssignment records the designer's accept/decline decision. On
// accept the parent project moves assigned->in_progress in the same
// transaction. Repeating a response yields INVALID_TRANSITION; losing a
// race yields CONFLICT.
func (s *WorkflowService) RespondToAssignment(ctx context.Context, actor *domain.Account, leadID string, decision domain.LeadStatus) (*domain.Lead, error) {
	if decision != domain.LeadStatusAccepted && decision != domain.LeadStatusDeclined {
		return nil, apperrors.NewValidationError("decision must be accepted or declined", map[string]any{"decision": decision})
	}
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleDesigner); err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": leadID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanBypassOwnership(actor) && lead.DesignerID != nil && *lead.DesignerID != actor.ID {
		return nil, apperrors.NewForbiddenOwnership("lead not assigned to account")
	}
	if lead.Status != domain.LeadStatusAssigned {
		return nil, apperrors.NewInvalidTransition("lead", string(lead.Status), string(decision))
	}

	project, err := s.GetProject(ctx, lead.ProjectID)
	if err != nil {
		return nil, err
	}

	respondedAt := s.now()
	applied, err := s.leads.Respond(ctx, lead.ID, lead.ProjectID, decision, respondedAt)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("lead changed concurrently", map[string]any{"lead_id": leadID})
	}

	lead.Status = decision
	lead.RespondedAt = &respondedAt

	designerID := actor.ID
	if lead.DesignerID != nil {
		designerID = *lead.DesignerID
	}
	s.publishEvent(ctx, events.EventLeadResponded, actor.ID, events.LeadRespondedPayload{
		LeadID:       lead.ID,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		DesignerID:   designerID,
		AssignedByID: lead.AssignedByID,
		Decision:     decision,
	})
	return lead, nil
}

// StartReview moves a project in_progress->review (ADMIN tier).
func (s *WorkflowService) StartReview(ctx context.Context, actor *domain.Account, projectID string) (*domain.Project, error) {
	return s.transitionProject(ctx, actor, projectID, domain.ProjectStatusInProgress, domain.ProjectStatusReview)
}

// CompleteProject moves review->completed and converts the project's
// accepted leads (ADMIN tier).
func (s *WorkflowService) CompleteProject(ctx context.Context, actor *domain.Account, projectID string) (*domain.Project, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectStatusReview {
		return nil, apperrors.NewInvalidTransition("project", string(project.Status), string(domain.ProjectStatusCompleted))
	}

	applied, err := s.projects.Complete(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("project changed concurrently", map[string]any{"project_id": projectID})
	}

	old := project.Status
	project.Status = domain.ProjectStatusCompleted
	s.publishEvent(ctx, events.EventProjectStatusChanged, actor.ID, events.ProjectStatusChangedPayload{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		CustomerID:   project.CustomerID,
		OldStatus:    old,
		NewStatus:    project.Status,
	})
	return project, nil
}

// CancelProject is the admin override: any non-terminal project can be
// cancelled.
func (s *WorkflowService) CancelProject(ctx context.Context, actor *domain.Account, projectID string) (*domain.Project, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("project", string(project.Status), string(domain.ProjectStatusCancelled))
	}

	applied, err := s.projects.UpdateStatus(ctx, projectID, project.Status, domain.ProjectStatusCancelled)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("project changed concurrently", map[string]any{"project_id": projectID})
	}

	old := project.Status
	project.Status = domain.ProjectStatusCancelled
	s.publishEvent(ctx, events.EventProjectStatusChanged, actor.ID, events.ProjectStatusChangedPayload{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		CustomerID:   project.CustomerID,
		OldStatus:    old,
		NewStatus:    project.Status,
	})
	return project, nil
}

// ApproveAccount flips the approval flag (ADMIN tier). Re-submitting the
// current state is a no-op and does not notify.
func (s *WorkflowService) ApproveAccount(ctx context.Context, actor *domain.Account, accountID string, approved bool) (*domain.Account, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": accountID})
		}
		return nil, apperrors.MapError(err)
	}
	if account.IsApproved == approved {
		return account, nil
	}

	changed, err := s.accounts.SetApproval(ctx, accountID, approved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !changed {
		return nil, apperrors.NewConflict("account changed concurrently", map[string]any{"account_id": accountID})
	}

	account.IsApproved = approved
	s.publishEvent(ctx, events.EventAccountApprovalChanged, actor.ID, events.AccountApprovalChangedPayload{
		AccountID: account.ID,
		Approved:  approved,
	})
	return account, nil
}

// ListPendingAccounts returns accounts awaiting approval (ADMIN tier).
func (s *WorkflowService) ListPendingAccounts(ctx context.Context, actor *domain.Account) ([]domain.Account, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	result, err := s.accounts.ListPendingApproval(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListProjectLeads returns the assignment history for a project.
func (s *WorkflowService) ListProjectLeads(ctx context.Context, projectID string) ([]domain.Lead, error) {
	result, err := s.leads.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListMyLeads returns the actor's own assignment leads, newest first.
func (s *WorkflowService) ListMyLeads(ctx context.Context, actor *domain.Account) ([]domain.Lead, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	result, err := s.leads.ListByDesigner(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *WorkflowService) transitionProject(ctx context.Context, actor *domain.Account, projectID string, from, to domain.ProjectStatus) (*domain.Project, error) {
	if err := s.authorizer.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != from || !from.CanTransitionTo(to) {
		return nil, apperrors.NewInvalidTransition("project", string(project.Status), string(to))
	}

	applied, err := s.projects.UpdateStatus(ctx, projectID, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewConflict("project changed concurrently", map[string]any{"project_id": projectID})
	}

	project.Status = to
	s.publishEvent(ctx, events.EventProjectStatusChanged, actor.ID, events.ProjectStatusChangedPayload{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		CustomerID:   project.CustomerID,
		OldStatus:    from,
		NewStatus:    to,
	})
	return project, nil
}

func (s *WorkflowService) loadDesigner(ctx context.Context, designerID string) (*domain.Account, error) {
	designer, err := s.accounts.GetByID(ctx, designerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("designer", map[string]any{"designer_id": designerID})
		}
		return nil, apperrors.MapError(err)
	}
	if designer.Role != domain.RoleDesigner {
		return nil, apperrors.NewValidationError("assignee is not a designer", map[string]any{"designer_id": designerID})
	}
	if !designer.IsApproved {
		return nil, apperrors.NewValidationError("designer pending approval", map[string]any{"designer_id": designerID})
	}
	return designer, nil
}

func (s *WorkflowService) publishEvent(ctx context.Context, eventType events.EventType, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
