package domain

import "time"

// City scopes projects and vendors to a service region.
type City struct {
	ID        string
	Name      string
	State     string
	IsActive  bool
	CreatedAt time.Time
}
