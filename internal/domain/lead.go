package domain

import "time"

// LeadStatus enumerates lifecycle states for leads.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusAssigned  LeadStatus = "assigned"
	LeadStatusAccepted  LeadStatus = "accepted"
	LeadStatusDeclined  LeadStatus = "declined"
	LeadStatusConverted LeadStatus = "converted"
)

var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:      {LeadStatusAssigned},
	LeadStatusAssigned: {LeadStatusAccepted, LeadStatusDeclined},
	LeadStatusAccepted: {LeadStatusConverted},
}

// CanTransitionTo reports whether the status change is legal.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the lead can no longer change state from the
// designer's perspective. Declined leads stay terminal; re-assignment
// creates a fresh lead instead of reopening this one.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusDeclined || s == LeadStatusConverted
}

// Lead pairs a designer with a project for one assignment attempt. A
// project accumulates one lead per attempt over its life.
type Lead struct {
	ID           string
	ProjectID    string
	DesignerID   *string
	AssignedByID *string
	Status       LeadStatus
	AssignedAt   *time.Time
	RespondedAt  *time.Time
	CreatedAt    time.Time
}
