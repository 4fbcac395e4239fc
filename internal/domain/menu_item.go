package domain

import "time"

// MenuItem is a per-role navigation entry consumed read-only by the UI.
type MenuItem struct {
	ID        string
	RoleID    string
	ItemID    string
	Label     string
	Icon      string
	Href      *string
	ParentID  *string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
}
