package domain

import "time"

// Well-known role names. The authoritative hierarchy lives in the roles
// table; these constants exist for guard wiring and seeds.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
	RoleDesigner   = "designer"
	RoleVendor     = "vendor"
	RoleCustomer   = "customer"
)

// OwnershipBypassRoles is the explicit allow-list of roles that may act on
// resources they do not own. It is deliberately not a level threshold:
// designer and vendor share a level and must never bypass each other.
var OwnershipBypassRoles = map[string]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
}

// Role is an administratively mutable hierarchy entry. Authorization
// compares Level, never name equality.
type Role struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	Level       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is an atomic module/action/resource triple.
type Permission struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	Module      string
	Action      string
	Resource    *string
	CreatedAt   time.Time
}
