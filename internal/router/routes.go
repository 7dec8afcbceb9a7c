// Package router holds the static route table of the console and the navigation guard
// evaluated before every route transition.
package router

import (
	"slices"
	"strings"

	"github.com/clubdesk/console/internal/models"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Route describes one view. Routes are defined at startup and never mutated.
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
	// Roles allowed to open the route; empty means any authenticated role
	Roles []models.Role
}

// Permits reports whether role may open the route
func (r Route) Permits(role models.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	return slices.Contains(r.Roles, role)
}

var (
	adminOnly     = []models.Role{models.RoleAdmin}
	clubAdminOnly = []models.Role{models.RoleClubAdmin, models.RoleAdmin}
)

// Routes is the route table of the console
var Routes = []Route{
	{Path: PathLogin, Name: "Login", Title: "Login", RequiresAuth: false},
	{Path: PathDashboard, Name: "Dashboard", Title: "Workbench", RequiresAuth: true},

	{Path: "/clubs", Name: "Clubs", Title: "Clubs", RequiresAuth: true},
	{Path: "/clubs/:id", Name: "ClubDetail", Title: "Club", RequiresAuth: true},
	{Path: "/activities", Name: "Activities", Title: "Activities", RequiresAuth: true},
	{Path: "/activities/:id", Name: "ActivityDetail", Title: "Activity", RequiresAuth: true},
	{Path: "/my/clubs", Name: "MyClubs", Title: "My clubs", RequiresAuth: true},
	{Path: "/my/applications", Name: "MyApplications", Title: "My applications", RequiresAuth: true},
	{Path: "/my/signups", Name: "MySignups", Title: "My signups", RequiresAuth: true},
	{Path: "/profile", Name: "Profile", Title: "Profile", RequiresAuth: true},

	{Path: "/admin/clubs", Name: "AdminClubs", Title: "Club management", RequiresAuth: true, Roles: adminOnly},
	{Path: "/admin/activities", Name: "AdminActivities", Title: "Activity review", RequiresAuth: true, Roles: adminOnly},

	{Path: "/club-admin/info", Name: "ClubInfo", Title: "Club info", RequiresAuth: true, Roles: clubAdminOnly},
	{Path: "/club-admin/members", Name: "MemberManage", Title: "Member management", RequiresAuth: true, Roles: clubAdminOnly},
	{Path: "/club-admin/activities", Name: "ActivityManage", Title: "Activity management", RequiresAuth: true, Roles: clubAdminOnly},
}

// Table resolves request paths against a route list
type Table struct {
	routes []Route
}

// NewTable builds a table over routes
func NewTable(routes []Route) *Table {
	return &Table{routes: routes}
}

// DefaultTable returns the table over Routes
func DefaultTable() *Table {
	return NewTable(Routes)
}

// Routes returns the routes of the table
func (t *Table) Routes() []Route {
	return t.routes
}

// Lookup returns the route whose path pattern matches path.
// Sub-paths of a protected route (e.g. /admin/clubs/7/leader/3) match that route so the
// same guard protects a view and the actions it issues. Public routes match exactly.
func (t *Table) Lookup(path string) (Route, bool) {
	path = normalize(path)
	var best Route
	bestLen := -1
	for _, r := range t.routes {
		n, ok := matchPrefix(r.Path, path)
		if ok && !r.RequiresAuth && n != segments(path) {
			continue
		}
		if ok && n > bestLen {
			best, bestLen = r, n
		}
	}
	return best, bestLen >= 0
}

// Resolve maps a path to a route. "/" and unknown paths resolve to the dashboard.
func (t *Table) Resolve(path string) Route {
	if r, ok := t.Lookup(path); ok {
		return r
	}
	if r, ok := t.Lookup(PathDashboard); ok {
		return r
	}
	return Route{Path: PathDashboard, Name: "Dashboard", RequiresAuth: true}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathRoot
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// matchPrefix matches the pattern against the leading segments of path and returns
// the number of matched segments
func matchPrefix(pattern, path string) (int, bool) {
	if pattern == PathRoot || path == PathRoot {
		return 0, false
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(xs) < len(ps) {
		return 0, false
	}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return 0, false
			}
			continue
		}
		if seg != xs[i] {
			return 0, false
		}
	}
	return len(ps), true
}

func segments(path string) int {
	return len(strings.Split(strings.Trim(path, "/"), "/"))
}
