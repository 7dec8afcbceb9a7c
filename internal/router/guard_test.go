package router

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/console/internal/models"
)

var allRoles = []models.Role{models.RoleAnonymous, models.RoleMember, models.RoleClubAdmin, models.RoleAdmin}

func TestGuard_NoTokenAlwaysRedirectsToLogin(t *testing.T) {
	for _, route := range Routes {
		if !route.RequiresAuth {
			continue
		}
		for _, role := range allRoles {
			d := Guard(route, State{Role: role})
			assert.Equal(t, RedirectLogin, d.Outcome, "route %s role %s", route.Path, role)
			assert.Equal(t, PathLogin, d.Redirect)
		}
	}
}

func TestGuard_RoleSetsWithToken(t *testing.T) {
	for _, route := range Routes {
		if !route.RequiresAuth || len(route.Roles) == 0 {
			continue
		}
		for _, role := range allRoles {
			d := Guard(route, State{Token: "T", Role: role})
			if route.Permits(role) {
				assert.Equal(t, Allow, d.Outcome, "route %s role %s", route.Path, role)
				continue
			}
			assert.Equal(t, RedirectForbidden, d.Outcome, "route %s role %s", route.Path, role)
			assert.Equal(t, PathDashboard, d.Redirect, "denial with a token never goes to login")
		}
	}
}

func TestGuard_Table(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		path     string
		state    State
		outcome  Outcome
		redirect string
	}{
		{"scenario 1: no token on dashboard", "/dashboard", State{}, RedirectLogin, PathLogin},
		{"scenario 2: member on admin clubs", "/admin/clubs", State{Token: "T", Role: models.ParseRole("MEMBER")}, RedirectForbidden, PathDashboard},
		{"scenario 5: token on login", "/login", State{Token: "T"}, RedirectAlreadyLoggedIn, PathDashboard},
		{"login without token", "/login", State{}, Allow, ""},
		{"admin on admin clubs", "/admin/clubs", State{Token: "T", Role: models.RoleAdmin}, Allow, ""},
		{"admin on club-admin view", "/club-admin/members", State{Token: "T", Role: models.RoleAdmin}, Allow, ""},
		{"club admin on club-admin view", "/club-admin/activities", State{Token: "T", Role: models.RoleClubAdmin}, Allow, ""},
		{"club admin on admin view", "/admin/activities", State{Token: "T", Role: models.RoleClubAdmin}, RedirectForbidden, PathDashboard},
		{"token without profile on open view", "/clubs", State{Token: "T"}, Allow, ""},
		{"token without profile on admin view", "/admin/clubs", State{Token: "T"}, RedirectForbidden, PathDashboard},
		{"member on admin sub-path", "/admin/clubs/7/leader/3", State{Token: "T", Role: models.RoleMember}, RedirectForbidden, PathDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Guard(table.Resolve(tt.path), tt.state)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestTable_Resolve(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path string
		want string
	}{
		{"/", "Dashboard"},
		{"", "Dashboard"},
		{"/nope/nothing", "Dashboard"},
		{"/login", "Login"},
		{"/login/extra", "Dashboard"},
		{"/clubs", "Clubs"},
		{"/clubs/", "Clubs"},
		{"/clubs/12", "ClubDetail"},
		{"/clubs/12/members", "ClubDetail"},
		{"/my/clubs", "MyClubs"},
		{"/activities/3?tab=signups", "ActivityDetail"},
		{"/admin/clubs", "AdminClubs"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.path).Name)
		})
	}
}

type fixedState struct{ st State }

func (f *fixedState) GuardState() State { return f.st }

func TestRouter_Push(t *testing.T) {
	state := &fixedState{}
	r := New(DefaultTable(), state, zerolog.Nop())
	assert.Equal(t, PathRoot, r.Current())

	shown, d := r.Push("/dashboard")
	assert.Equal(t, RedirectLogin, d.Outcome)
	assert.Equal(t, PathLogin, shown.Path)
	assert.Equal(t, PathLogin, r.Current())

	state.st = State{Token: "T", Role: models.RoleMember}
	shown, d = r.Push("/admin/clubs")
	assert.Equal(t, RedirectForbidden, d.Outcome)
	assert.Equal(t, PathDashboard, shown.Path)

	r.Navigate("/login")
	assert.Equal(t, PathDashboard, r.Current())

	r.Navigate("/")
	assert.Equal(t, PathDashboard, r.Current())

	shown, d = r.Push("/clubs/9")
	require.True(t, d.Allowed())
	assert.Equal(t, "/clubs/:id", shown.Path)
	assert.Equal(t, "/clubs/9", r.Current())
}
