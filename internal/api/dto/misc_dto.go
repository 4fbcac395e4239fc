package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CityRequest payload for city create/update.
type CityRequest struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// CityResponse is the public view of a city.
type CityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	State    string `json:"state"`
	IsActive bool   `json:"isActive"`
}

// NewCityResponse maps the domain model.
func NewCityResponse(city *domain.City) CityResponse {
	return CityResponse{ID: city.ID, Name: city.Name, State: city.State, IsActive: city.IsActive}
}

// NewCityListResponse maps a slice.
func NewCityListResponse(cities []domain.City) []CityResponse {
	out := make([]CityResponse, 0, len(cities))
	for i := range cities {
		out = append(out, NewCityResponse(&cities[i]))
	}
	return out
}

// NotificationResponse is the recipient's view of one notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// NewNotificationResponse maps the domain model.
func NewNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.Format(time.RFC3339),
	}
}

// NewNotificationListResponse maps a slice.
func NewNotificationListResponse(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, NewNotificationResponse(&notifications[i]))
	}
	return out
}
