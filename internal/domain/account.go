package domain

import "time"

// Account is the domain model for every actor on the platform: customers,
// designers, vendors, employees and administrators. Accounts are never
// deleted, only left unapproved.
type Account struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
	CityID       *string
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
