package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/console/internal/app"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/router"
)

// fakeAPI stands in for the remote club API
type fakeAPI struct {
	mu     sync.Mutex
	calls  []string
	role   string
	expire bool
}

func (f *fakeAPI) reply(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "data": data})
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())
	expire, role := f.expire, f.role
	f.mu.Unlock()

	if expire && r.URL.Path != "/api/user/login" {
		f.reply(w, 401, "expired", nil)
		return
	}

	user := map[string]any{"id": 1, "username": "alice", "role": role, "managedClubIds": []int{3}}
	switch r.URL.Path {
	case "/api/user/login":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			f.reply(w, 500, "Wrong username or password", nil)
			return
		}
		f.reply(w, 0, "ok", map[string]any{"token": "T", "userInfo": user})
	case "/api/user/info":
		f.reply(w, 0, "ok", user)
	case "/api/club/list", "/api/activity/list", "/api/admin/club/applications/pending":
		f.reply(w, 0, "ok", map[string]any{"records": []map[string]any{{"id": 3, "name": "Chess"}}, "total": 1, "size": 10, "current": 1})
	default:
		f.reply(w, 0, "ok", nil)
	}
}

func (f *fakeAPI) saw(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

type fixture struct {
	server  *Server
	api     *fakeAPI
	app     *app.App
	notices *notify.Queue
}

func newFixture(t *testing.T, role string) *fixture {
	t.Helper()
	return newFixtureWith(t, role, "mock")
}

func newFixtureWith(t *testing.T, role, provider string) *fixture {
	t.Helper()

	fake := &fakeAPI{role: role}
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		API:       config.APIConfig{Origin: upstream.URL, BaseURL: "/api", Timeout: 5 * time.Second},
		Console:   config.ConsoleConfig{Addr: ":0", CORSOrigins: []string{"http://localhost:5173"}},
		Token:     config.TokenConfig{Backend: "memory"},
		Session:   config.SessionConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "user-store.json")},
		Dashboard: config.DashboardConfig{Provider: provider, Seed: 1},
	}

	notices := notify.NewQueue(50, zerolog.Nop())
	a, err := app.New(cfg, notices, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	s, err := New(cfg, a, notices, zerolog.Nop(), "test")
	require.NoError(t, err)

	return &fixture{server: s, api: fake, app: a, notices: notices}
}

func (f *fixture) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func (f *fixture) browse(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	w := f.request(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "MEMBER")
	w := f.request(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", decode(t, w)["status"])
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	f := newFixture(t, "MEMBER")

	w := f.request(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, router.PathLogin, decode(t, w)["redirect"])

	w = f.browse("/clubs/3")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, router.PathLogin, w.Header().Get("Location"))

	w = f.browse("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, router.PathLogin, w.Header().Get("Location"))

	w = f.request(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailureIsSilent(t *testing.T) {
	f := newFixture(t, "MEMBER")

	w := f.request(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Wrong username or password", body["error"])
	assert.Equal(t, "password", body["field"])

	assert.Empty(t, f.notices.Drain())
	assert.False(t, f.app.Session.IsLoggedIn())

	w = f.request(http.MethodPost, "/login", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRedirect(t *testing.T) {
	f := newFixture(t, "MEMBER")

	w := f.request(http.MethodPost, "/login?redirect=/activities/5", map[string]string{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/activities/5", decode(t, w)["redirect"])

	f2 := newFixture(t, "MEMBER")
	w = f2.request(http.MethodPost, "/login?redirect=/admin/clubs", map[string]string{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, router.PathDashboard, decode(t, w)["redirect"])
}

func TestLoginRedirectStaysInConsole(t *testing.T) {
	for _, target := range []string{
		"https://evil.example/phish",
		"//evil.example",
		"/\\evil.example",
		"/clubs/../admin/clubs",
		"/nowhere",
		"clubs",
	} {
		t.Run(target, func(t *testing.T) {
			f := newFixture(t, "MEMBER")
			w := f.request(http.MethodPost, "/login?redirect="+url.QueryEscape(target), map[string]string{"username": "alice", "password": "secret"})
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, router.PathDashboard, decode(t, w)["redirect"])
			assert.Equal(t, router.PathDashboard, f.app.Router.Current())
		})
	}
}

func TestMemberGating(t *testing.T) {
	f := newFixture(t, "MEMBER")
	f.login(t)

	w := f.request(http.MethodGet, "/admin/clubs", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, router.PathDashboard, decode(t, w)["redirect"])

	w = f.request(http.MethodPost, "/admin/clubs/3/leader", map[string]int{"userId": 2})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, f.api.saw("POST /api/admin/club/3/leader/2"))

	w = f.request(http.MethodGet, "/club-admin/members/applications", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, router.PathDashboard, decode(t, w)["redirect"])

	w = f.request(http.MethodGet, "/clubs?name=chess&pageNum=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.api.saw("GET /api/club/list?name=chess&pageNum=1"))

	w = f.request(http.MethodPost, "/activities/5/signup", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("POST /api/activity/5/signup"))
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, "MEMBER")
	f.login(t)

	w := f.request(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Stats.TotalClubs)
	assert.Equal(t, int64(45), resp.Stats.TotalActivities)
	assert.Equal(t, int64(8), resp.Stats.PendingApprovals)
	assert.Len(t, resp.TimeSeries, 12)
	assert.Len(t, resp.Funnel, 4)
	assert.InDelta(t, 85.0, resp.Gauge.Percent, 0.001)
	assert.Len(t, resp.Radar.Series, 6)
	require.Len(t, resp.PieChart.Series, 1)
	assert.Len(t, resp.PieChart.Series[0].Data, 5)

	w = f.browse("/somewhere/else")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, router.PathDashboard, w.Header().Get("Location"))
}

func TestAdminActions(t *testing.T) {
	f := newFixture(t, "ADMIN")
	f.login(t)

	w := f.request(http.MethodGet, "/admin/clubs", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(http.MethodPost, "/admin/clubs", map[string]string{"category": "Games"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.request(http.MethodPost, "/admin/clubs", map[string]string{"name": "Go", "category": "Games"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, f.api.saw("POST /api/admin/club/create"))

	w = f.request(http.MethodPost, "/admin/clubs/3/leader", map[string]int{"userId": 2})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("POST /api/admin/club/3/leader/2"))

	w = f.request(http.MethodPatch, "/admin/clubs/applications/11", map[string]any{"approved": true})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("POST /api/admin/club/applications/review"))

	w = f.request(http.MethodPost, "/admin/activities/4/review", map[string]any{"approved": false, "comment": "no"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("PUT /api/admin/activity/4/review"))

	w = f.request(http.MethodDelete, "/admin/clubs/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var messages []string
	for _, n := range f.notices.Drain() {
		messages = append(messages, n.Message)
	}
	assert.Equal(t, []string{"Club created", "Leader assigned", "Approved", "Rejected"}, messages)
}

func TestClubAdminScope(t *testing.T) {
	f := newFixture(t, "CLUB_ADMIN")
	f.login(t)

	w := f.request(http.MethodGet, "/club-admin/activities", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.api.saw("GET /api/activity/list?clubId=3"))

	w = f.request(http.MethodGet, "/club-admin/activities?clubId=9", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(http.MethodPost, "/club-admin/activities", map[string]any{
		"clubId": 9, "name": "Blitz", "location": "Hall", "activityTime": "2025-03-01 18:00:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(http.MethodPost, "/club-admin/activities", map[string]any{
		"clubId": 3, "name": "Blitz", "location": "Hall", "activityTime": "2025-03-01 18:00:00", "maxParticipants": 20,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, f.api.saw("POST /api/club-admin/activity/create"))

	w = f.request(http.MethodPost, "/club-admin/activities/7/checkin", map[string]any{"userId": 5})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("POST /api/club-admin/activity/7/checkin"))

	w = f.request(http.MethodPatch, "/club-admin/members/applications/2", map[string]any{"approved": true})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.api.saw("POST /api/club/management/3/applications/review"))

	w = f.request(http.MethodGet, "/admin/activities", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnauthorizedMidSession(t *testing.T) {
	f := newFixture(t, "MEMBER")
	f.login(t)

	f.api.mu.Lock()
	f.api.expire = true
	f.api.mu.Unlock()

	w := f.request(http.MethodGet, "/clubs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, router.PathLogin, decode(t, w)["redirect"])
	assert.Equal(t, router.PathLogin, f.app.Router.Current())

	// The token is gone, so the guard now refuses before any call
	w = f.request(http.MethodGet, "/clubs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notices := decode(t, w)["notifications"].([]any)
	require.Len(t, notices, 1)
	assert.Equal(t, "expired", notices[0].(map[string]any)["message"])

	w = f.request(http.MethodGet, "/session", nil)
	body := decode(t, w)
	assert.Equal(t, false, body["loggedIn"])
	assert.Nil(t, body["user"])
	assert.False(t, f.app.Session.IsLoggedIn())
}

func TestDashboardFollowsUserSwitch(t *testing.T) {
	f := newFixtureWith(t, "ADMIN", "api")
	f.login(t)

	w := f.request(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["pendingApprovals"])

	w = f.request(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	f.api.mu.Lock()
	f.api.role = "MEMBER"
	f.api.mu.Unlock()
	f.login(t)

	w = f.request(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats = decode(t, w)["stats"].(map[string]any)
	assert.EqualValues(t, 0, stats["pendingApprovals"])
}

func TestLogout(t *testing.T) {
	f := newFixture(t, "MEMBER")
	f.login(t)

	w := f.request(http.MethodGet, "/session", nil)
	assert.Equal(t, true, decode(t, w)["loggedIn"])

	w = f.request(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(http.MethodGet, "/session", nil)
	body := decode(t, w)
	assert.Equal(t, false, body["loggedIn"])
	assert.Nil(t, body["user"])
}
