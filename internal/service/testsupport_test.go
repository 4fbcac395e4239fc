package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// In-memory repository fakes mirroring the conditional-update semantics of
// the postgres implementations.

type memRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*domain.Role
	perms map[string][]string
	byID  map[string]*domain.Role
}

func newMemRoleRepo() *memRoleRepo {
	r := &memRoleRepo{roles: map[string]*domain.Role{}, perms: map[string][]string{}, byID: map[string]*domain.Role{}}
	for name, level := range map[string]int{
		domain.RoleSuperAdmin: 5,
		domain.RoleAdmin:      4,
		domain.RoleEmployee:   3,
		domain.RoleDesigner:   2,
		domain.RoleVendor:     2,
		domain.RoleCustomer:   1,
	} {
		role := &domain.Role{ID: uuid.NewString(), Name: name, DisplayName: name, Level: level, IsActive: true}
		r.roles[name] = role
		r.byID[role.ID] = role
	}
	return r
}

func (r *memRoleRepo) Create(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role.ID = uuid.NewString()
	r.roles[role.Name] = role
	r.byID[role.ID] = role
	return nil
}

func (r *memRoleRepo) Update(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[role.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.roles, existing.Name)
	*existing = *role
	r.roles[role.Name] = existing
	return nil
}

func (r *memRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *role
	return &copied, nil
}

func (r *memRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *role
	return &copied, nil
}

func (r *memRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out, nil
}

func (r *memRoleRepo) ReplacePermissions(_ context.Context, roleID string, permissionIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[roleID]; !ok {
		return pgx.ErrNoRows
	}
	r.perms[roleID] = append([]string{}, permissionIDs...)
	return nil
}

func (r *memRoleRepo) ListPermissions(_ context.Context, roleID string) ([]domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Permission, 0, len(r.perms[roleID]))
	for _, id := range r.perms[roleID] {
		out = append(out, domain.Permission{ID: id, Name: "perm-" + id})
	}
	return out, nil
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*domain.Account{}}
}

func (r *memAccountRepo) put(account *domain.Account) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	r.accounts[account.ID] = account
	return account
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.put(account)
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccountRepo) ListByRole(_ context.Context, role string) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if account.Role == role {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *memAccountRepo) ListPendingApproval(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if !account.IsApproved {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *memAccountRepo) SetApproval(_ context.Context, id string, approved bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.IsApproved == approved {
		return false, nil
	}
	account.IsApproved = approved
	return true, nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	leads    *memLeadRepo

	// forceStale makes the next conditional update lose, simulating a
	// concurrent writer.
	forceStale bool
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]*domain.Project{}}
}

func (r *memProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = project
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *project
	return &copied, nil
}

func (r *memProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, project := range r.projects {
		if filter.CustomerID != nil && project.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.DesignerID != nil && (project.DesignerID == nil || *project.DesignerID != *filter.DesignerID) {
			continue
		}
		if filter.CityID != nil && project.CityID != *filter.CityID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if project.Status == status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *project)
	}
	return out, nil
}

func (r *memProjectRepo) UpdateStatus(_ context.Context, id string, from, to domain.ProjectStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceStale {
		r.forceStale = false
		return false, nil
	}
	project, ok := r.projects[id]
	if !ok || project.Status != from {
		return false, nil
	}
	project.Status = to
	project.UpdatedAt = time.Now()
	return true, nil
}

func (r *memProjectRepo) Complete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceStale {
		r.forceStale = false
		return false, nil
	}
	project, ok := r.projects[id]
	if !ok || project.Status != domain.ProjectStatusReview {
		return false, nil
	}
	project.Status = domain.ProjectStatusCompleted
	project.UpdatedAt = time.Now()
	if r.leads != nil {
		r.leads.convertAccepted(id)
	}
	return true, nil
}

type memLeadRepo struct {
	mu       sync.Mutex
	leads    map[string]*domain.Lead
	projects *memProjectRepo
}

func newMemLeadRepo(projects *memProjectRepo) *memLeadRepo {
	r := &memLeadRepo{leads: map[string]*domain.Lead{}, projects: projects}
	projects.leads = r
	return r
}

func (r *memLeadRepo) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *lead
	return &copied, nil
}

func (r *memLeadRepo) ListByProject(_ context.Context, projectID string) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Lead
	for _, lead := range r.leads {
		if lead.ProjectID == projectID {
			out = append(out, *lead)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memLeadRepo) ListByDesigner(_ context.Context, designerID string) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Lead
	for _, lead := range r.leads {
		if lead.DesignerID != nil && *lead.DesignerID == designerID {
			out = append(out, *lead)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memLeadRepo) assign(projectID, designerID, assignedByID string, expect domain.ProjectStatus, now time.Time) (*domain.Lead, bool, error) {
	r.projects.mu.Lock()
	project, ok := r.projects.projects[projectID]
	if !ok || project.Status != expect || r.projects.forceStale {
		r.projects.forceStale = false
		r.projects.mu.Unlock()
		return nil, false, nil
	}
	project.Status = domain.ProjectStatusAssigned
	project.DesignerID = &designerID
	project.UpdatedAt = now
	r.projects.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	lead := &domain.Lead{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		DesignerID:   &designerID,
		AssignedByID: &assignedByID,
		Status:       domain.LeadStatusAssigned,
		AssignedAt:   &now,
		CreatedAt:    now,
	}
	r.leads[lead.ID] = lead
	copied := *lead
	return &copied, true, nil
}

func (r *memLeadRepo) AssignDesigner(_ context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error) {
	return r.assign(projectID, designerID, assignedByID, domain.ProjectStatusLead, now)
}

func (r *memLeadRepo) ReassignDesigner(_ context.Context, projectID, designerID, assignedByID string, now time.Time) (*domain.Lead, bool, error) {
	return r.assign(projectID, designerID, assignedByID, domain.ProjectStatusAssigned, now)
}

func (r *memLeadRepo) Respond(_ context.Context, leadID, projectID string, decision domain.LeadStatus, now time.Time) (bool, error) {
	r.mu.Lock()
	lead, ok := r.leads[leadID]
	if !ok || lead.Status != domain.LeadStatusAssigned {
		r.mu.Unlock()
		return false, nil
	}
	lead.Status = decision
	lead.RespondedAt = &now
	r.mu.Unlock()

	if decision != domain.LeadStatusAccepted {
		return true, nil
	}

	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()
	project, ok := r.projects.projects[projectID]
	if !ok || project.Status != domain.ProjectStatusAssigned {
		// roll the lead back, mirroring the transactional repository
		r.mu.Lock()
		lead.Status = domain.LeadStatusAssigned
		lead.RespondedAt = nil
		r.mu.Unlock()
		return false, nil
	}
	project.Status = domain.ProjectStatusInProgress
	project.UpdatedAt = now
	return true, nil
}

func (r *memLeadRepo) convertAccepted(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.leads {
		if lead.ProjectID == projectID && lead.Status == domain.LeadStatusAccepted {
			lead.Status = domain.LeadStatusConverted
		}
	}
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
	failCreate    bool
}

func (r *memNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return pgx.ErrTxClosed
	}
	notification.ID = uuid.NewString()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.ID == id {
			copied := *notification
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memNotificationRepo) ListForRecipient(_ context.Context, recipientID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		out = append(out, *notification)
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.ID == id && !notification.IsRead {
			notification.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

// workflowFixture wires a WorkflowService over the in-memory repositories
// with a real dispatcher so notification emission can be asserted.
type workflowFixture struct {
	svc           *WorkflowService
	roles         *memRoleRepo
	accounts      *memAccountRepo
	projects      *memProjectRepo
	leads         *memLeadRepo
	notifications *memNotificationRepo

	superAdmin *domain.Account
	admin      *domain.Account
	employee   *domain.Account
	designer   *domain.Account
	designer2  *domain.Account
	customer   *domain.Account
}

func newWorkflowFixture() *workflowFixture {
	roles := newMemRoleRepo()
	accounts := newMemAccountRepo()
	projects := newMemProjectRepo()
	leads := newMemLeadRepo(projects)
	notifications := &memNotificationRepo{}

	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	notifier := NewNotificationService(dispatcher, notifications, logger, config.NotificationConfig{})
	notifier.RegisterHandlers()

	svc := NewWorkflowService(WorkflowDependencies{
		ProjectRepo: projects,
		LeadRepo:    leads,
		AccountRepo: accounts,
		Authorizer:  auth.NewAuthorizer(roles),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	f := &workflowFixture{
		svc:           svc,
		roles:         roles,
		accounts:      accounts,
		projects:      projects,
		leads:         leads,
		notifications: notifications,
	}
	f.superAdmin = f.addAccount("root@example.com", domain.RoleSuperAdmin, true)
	f.admin = f.addAccount("admin@example.com", domain.RoleAdmin, true)
	f.employee = f.addAccount("staff@example.com", domain.RoleEmployee, true)
	f.designer = f.addAccount("designer@example.com", domain.RoleDesigner, true)
	f.designer2 = f.addAccount("designer2@example.com", domain.RoleDesigner, true)
	f.customer = f.addAccount("customer@example.com", domain.RoleCustomer, true)
	return f
}

func (f *workflowFixture) addAccount(email, role string, approved bool) *domain.Account {
	return f.accounts.put(&domain.Account{
		Email:      email,
		FirstName:  "Test",
		LastName:   "Account",
		Role:       role,
		IsApproved: approved,
	})
}

func (f *workflowFixture) newProject(ctx context.Context) *domain.Project {
	project, err := f.svc.CreateProject(ctx, f.customer, CreateProjectInput{
		Title:  "Living room remodel",
		CityID: uuid.NewString(),
	})
	if err != nil {
		panic(err)
	}
	return project
}
