package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadAssigned           EventType = "lead_assigned"
	EventLeadResponded          EventType = "lead_responded"
	EventProjectStatusChanged   EventType = "project_status_changed"
	EventAccountApprovalChanged EventType = "account_approval_changed"
)

// Event represents a domain event emitted by the workflow engine. Events
// are published only for applied transitions, never for rejected or
// repeated ones.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	LeadID       string `json:"lead_id"`
	ProjectID    string `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	DesignerID   string `json:"designer_id"`
	AssignedByID string `json:"assigned_by_id"`
}

// LeadRespondedPayload payload.
type LeadRespondedPayload struct {
	LeadID       string            `json:"lead_id"`
	ProjectID    string            `json:"project_id"`
	ProjectTitle string            `json:"project_title"`
	DesignerID   string            `json:"designer_id"`
	AssignedByID *string           `json:"assigned_by_id,omitempty"`
	Decision     domain.LeadStatus `json:"decision"`
}

// ProjectStatusChangedPayload payload.
type ProjectStatusChangedPayload struct {
	ProjectID    string               `json:"project_id"`
	ProjectTitle string               `json:"project_title"`
	CustomerID   string               `json:"customer_id"`
	OldStatus    domain.ProjectStatus `json:"old_status"`
	NewStatus    domain.ProjectStatus `json:"new_status"`
}

// AccountApprovalChangedPayload payload.
type AccountApprovalChangedPayload struct {
	AccountID string `json:"account_id"`
	Approved  bool   `json:"approved"`
}
