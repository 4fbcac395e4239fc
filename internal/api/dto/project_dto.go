package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CreateProjectRequest payload for customer project intake.
type CreateProjectRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CityID         string   `json:"cityId"`
	Budget         *float64 `json:"budget,omitempty"`
	TimelineMonths *int     `json:"timelineMonths,omitempty"`
}

// AssignDesignerRequest payload for assignment and reassignment.
type AssignDesignerRequest struct {
	DesignerID string `json:"designerId"`
}

// RespondRequest payload for a designer's accept/decline decision.
type RespondRequest struct {
	Decision string `json:"decision"`
}

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	CustomerID     string   `json:"customerId"`
	DesignerID     *string  `json:"designerId,omitempty"`
	CityID         string   `json:"cityId"`
	Budget         *float64 `json:"budget,omitempty"`
	Status         string   `json:"status"`
	TimelineMonths *int     `json:"timelineMonths,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// NewProjectResponse maps the domain model.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:             project.ID,
		Title:          project.Title,
		Description:    project.Description,
		CustomerID:     project.CustomerID,
		DesignerID:     project.DesignerID,
		CityID:         project.CityID,
		Budget:         project.Budget,
		Status:         string(project.Status),
		TimelineMonths: project.TimelineMonths,
		CreatedAt:      project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      project.UpdatedAt.Format(time.RFC3339),
	}
}

// NewProjectListResponse maps a slice.
func NewProjectListResponse(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}

// LeadResponse is the public view of an assignment lead.
type LeadResponse struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"projectId"`
	DesignerID   *string `json:"designerId,omitempty"`
	AssignedByID *string `json:"assignedById,omitempty"`
	Status       string  `json:"status"`
	AssignedAt   *string `json:"assignedAt,omitempty"`
	RespondedAt  *string `json:"respondedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// NewLeadResponse maps the domain model.
func NewLeadResponse(lead *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:           lead.ID,
		ProjectID:    lead.ProjectID,
		DesignerID:   lead.DesignerID,
		AssignedByID: lead.AssignedByID,
		Status:       string(lead.Status),
		AssignedAt:   formatTimePtr(lead.AssignedAt),
		RespondedAt:  formatTimePtr(lead.RespondedAt),
		CreatedAt:    lead.CreatedAt.Format(time.RFC3339),
	}
}

// NewLeadListResponse maps a slice.
func NewLeadListResponse(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for i := range leads {
		out = append(out, NewLeadResponse(&leads[i]))
	}
	return out
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
