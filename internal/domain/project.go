package domain

import "time"

// ProjectStatus enumerates lifecycle states for projects.
type ProjectStatus string

const (
	ProjectStatusLead       ProjectStatus = "lead"
	ProjectStatusAssigned   ProjectStatus = "assigned"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusReview     ProjectStatus = "review"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusLead:       {ProjectStatusAssigned, ProjectStatusCancelled},
	ProjectStatusAssigned:   {ProjectStatusInProgress, ProjectStatusCancelled},
	ProjectStatusInProgress: {ProjectStatusReview, ProjectStatusCancelled},
	ProjectStatusReview:     {ProjectStatusCompleted, ProjectStatusCancelled},
}

// CanTransitionTo reports whether the status change is legal.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the project can no longer change state.
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusCancelled
}

// Project is the customer-initiated unit of work whose status reflects
// overall progress.
type Project struct {
	ID             string
	Title          string
	Description    string
	CustomerID     string
	DesignerID     *string
	CityID         string
	Budget         *float64
	Status         ProjectStatus
	TimelineMonths *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
