package service

import "context"

// StaticMenuProvider serves a compiled-in menu table. It is the last link
// in the provider chain so navigation survives an empty catalog or a
// database outage.
type StaticMenuProvider struct{}

// NewStaticMenuProvider creates the provider.
func NewStaticMenuProvider() *StaticMenuProvider {
	return &StaticMenuProvider{}
}

// MenuForRole returns the baked entries for the role. Unknown roles get an
// empty menu, not an error.
func (p *StaticMenuProvider) MenuForRole(_ context.Context, role string) ([]MenuEntry, error) {
	entries, ok := staticMenus[role]
	if !ok {
		return []MenuEntry{}, nil
	}
	out := make([]MenuEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func href(s string) *string { return &s }

// staticMenus mirrors the seed catalog. Item ids are shared with the
// menu_items seeds so client routing keys stay stable across providers.
var staticMenus = map[string][]MenuEntry{
	"super_admin": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "projects", Label: "Projects", Icon: "briefcase", Href: href("/projects"), SortOrder: 2},
		{ItemID: "leads", Label: "Leads", Icon: "inbox", Href: href("/leads"), SortOrder: 3},
		{ItemID: "accounts", Label: "Accounts", Icon: "users", Href: href("/accounts"), SortOrder: 4},
		{ItemID: "approvals", Label: "Approvals", Icon: "check-circle", Href: href("/accounts/pending"), SortOrder: 5},
		{ItemID: "catalog", Label: "Roles & Permissions", Icon: "shield", Href: href("/catalog"), SortOrder: 6},
		{ItemID: "cities", Label: "Cities", Icon: "map-pin", Href: href("/cities"), SortOrder: 7},
		{ItemID: "settings", Label: "Settings", Icon: "settings", Href: href("/settings"), SortOrder: 8},
	},
	"admin": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "projects", Label: "Projects", Icon: "briefcase", Href: href("/projects"), SortOrder: 2},
		{ItemID: "leads", Label: "Leads", Icon: "inbox", Href: href("/leads"), SortOrder: 3},
		{ItemID: "approvals", Label: "Approvals", Icon: "check-circle", Href: href("/accounts/pending"), SortOrder: 4},
		{ItemID: "cities", Label: "Cities", Icon: "map-pin", Href: href("/cities"), SortOrder: 5},
	},
	"employee": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "projects", Label: "Projects", Icon: "briefcase", Href: href("/projects"), SortOrder: 2},
		{ItemID: "leads", Label: "Leads", Icon: "inbox", Href: href("/leads"), SortOrder: 3},
	},
	"designer": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "my-leads", Label: "My Leads", Icon: "inbox", Href: href("/leads/mine"), SortOrder: 2},
		{ItemID: "my-projects", Label: "My Projects", Icon: "briefcase", Href: href("/projects/mine"), SortOrder: 3},
		{ItemID: "notifications", Label: "Notifications", Icon: "bell", Href: href("/notifications"), SortOrder: 4},
	},
	"vendor": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "my-projects", Label: "My Projects", Icon: "briefcase", Href: href("/projects/mine"), SortOrder: 2},
		{ItemID: "notifications", Label: "Notifications", Icon: "bell", Href: href("/notifications"), SortOrder: 3},
	},
	"customer": {
		{ItemID: "dashboard", Label: "Dashboard", Icon: "home", Href: href("/dashboard"), SortOrder: 1},
		{ItemID: "my-projects", Label: "My Projects", Icon: "briefcase", Href: href("/projects/mine"), SortOrder: 2},
		{ItemID: "new-project", Label: "Start a Project", Icon: "plus-circle", Href: href("/projects/new"), SortOrder: 3},
		{ItemID: "notifications", Label: "Notifications", Icon: "bell", Href: href("/notifications"), SortOrder: 4},
	},
}
