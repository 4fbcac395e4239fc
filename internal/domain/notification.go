package domain

import "time"

// Notification type taxonomy.
const (
	NotificationTypeProjectAssigned = "project_assigned"
	NotificationTypeLeadResponse    = "lead_response"
	NotificationTypeProjectStatus   = "project_status"
	NotificationTypeAccountStatus   = "account_status"
	NotificationTypeSystemAlert     = "system_alert"
)

// Notification is a persisted, best-effort delivery intent produced by the
// workflow engine on accepted transitions.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Type        string
	IsRead      bool
	CreatedAt   time.Time
}
