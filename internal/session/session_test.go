package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/tokenstore"
)

type fakeUsers struct {
	loginResult *models.LoginResult
	loginErr    error
	info        *models.UserInfo
	infoErr     error

	// release, when set, blocks Info until closed
	started chan struct{}
	release chan struct{}

	silent []bool
}

func (f *fakeUsers) Login(ctx context.Context, creds models.Credentials, silent bool) (*models.LoginResult, error) {
	f.silent = append(f.silent, silent)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeUsers) Info(ctx context.Context) (*models.UserInfo, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

type memPersister struct {
	rec     Record
	cleared int
}

func (p *memPersister) Load() (Record, error) { return p.rec, nil }
func (p *memPersister) Save(rec Record) error  { p.rec = rec; return nil }
func (p *memPersister) Clear() error           { p.rec = Record{}; p.cleared++; return nil }

func newStore(users *fakeUsers) (*Store, *tokenstore.Memory, *memPersister) {
	tokens := tokenstore.NewMemory("")
	persister := &memPersister{}
	return New(users, tokens, persister, zerolog.Nop()), tokens, persister
}

func TestLogin_SetsTokenAndRole(t *testing.T) {
	users := &fakeUsers{loginResult: &models.LoginResult{
		Token:    "T",
		UserInfo: &models.UserInfo{ID: 1, Username: "a", Role: models.RoleAdmin},
	}}
	s, tokens, persister := newStore(users)

	_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	assert.Equal(t, "T", s.Token())
	assert.Equal(t, "T", tokenstore.Token(tokens))
	assert.Equal(t, models.RoleAdmin, s.Role())
	assert.True(t, s.IsAdmin())
	assert.True(t, s.IsClubAdmin())
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, []bool{true}, users.silent)

	assert.Equal(t, "T", persister.rec.Token)
	require.NotNil(t, persister.rec.UserInfo)
	assert.Equal(t, "a", persister.rec.UserInfo.Username)
}

func TestLogin_FailureLeavesStoreAnonymous(t *testing.T) {
	users := &fakeUsers{loginErr: &client.Error{Kind: client.KindEnvelope, Code: 500, Message: "bad password"}}
	s, tokens, persister := newStore(users)

	_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "wrong"})
	require.Error(t, err)
	assert.EqualError(t, err, "bad password")

	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.UserInfo())
	assert.Empty(t, tokenstore.Token(tokens))
	assert.Equal(t, Record{}, persister.rec)
}

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role      models.Role
		admin     bool
		clubAdmin bool
	}{
		{models.RoleAdmin, true, true},
		{models.RoleClubAdmin, false, true},
		{models.RoleMember, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			s, _, _ := newStore(&fakeUsers{loginResult: &models.LoginResult{
				Token: "T", UserInfo: &models.UserInfo{Role: tt.role},
			}})
			_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
			require.NoError(t, err)

			assert.Equal(t, tt.admin, s.IsAdmin())
			assert.Equal(t, tt.clubAdmin, s.IsClubAdmin())
		})
	}

	s, _, _ := newStore(&fakeUsers{})
	assert.Equal(t, models.RoleAnonymous, s.Role())
	assert.False(t, s.IsAdmin())
	assert.False(t, s.IsClubAdmin())
}

func TestRole_ProfileWithoutRoleIsMember(t *testing.T) {
	s, _, _ := newStore(&fakeUsers{loginResult: &models.LoginResult{
		Token: "T", UserInfo: &models.UserInfo{Username: "bob"},
	}})
	_, err := s.Login(context.Background(), models.Credentials{Username: "bob", Password: "b"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleMember, s.Role())
	assert.Equal(t, models.RoleMember, s.GuardState().Role)
}

func TestLogout_Idempotent(t *testing.T) {
	s, tokens, persister := newStore(&fakeUsers{loginResult: &models.LoginResult{
		Token: "T", UserInfo: &models.UserInfo{Role: models.RoleMember},
	}})
	_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Logout())
	first := struct {
		token string
		info  *models.UserInfo
		state State
		rec   Record
	}{s.Token(), s.UserInfo(), s.State(), persister.rec}

	require.NoError(t, s.Logout())
	assert.Equal(t, first.token, s.Token())
	assert.Equal(t, first.info, s.UserInfo())
	assert.Equal(t, first.state, s.State())
	assert.Equal(t, first.rec, persister.rec)

	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, tokenstore.Token(tokens))
	assert.Equal(t, 2, persister.cleared)
}

func TestFetchProfile(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		s, _, _ := newStore(&fakeUsers{info: &models.UserInfo{ID: 1}})
		_, err := s.FetchProfile(context.Background())
		assert.ErrorIs(t, err, ErrNoToken)
		assert.Nil(t, s.UserInfo())
	})

	t.Run("sets userInfo only", func(t *testing.T) {
		s, tokens, persister := newStore(&fakeUsers{info: &models.UserInfo{ID: 7, Role: models.RoleClubAdmin}})
		require.NoError(t, tokens.Set("T"))

		info, err := s.FetchProfile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), info.ID)
		assert.Equal(t, models.RoleClubAdmin, s.Role())
		assert.Empty(t, s.Token())
		require.NotNil(t, persister.rec.UserInfo)
	})

	t.Run("failure keeps the previous profile", func(t *testing.T) {
		users := &fakeUsers{infoErr: &client.Error{Kind: client.KindServer, Status: 500, Message: client.MsgServerError}}
		s, tokens, persister := newStore(users)
		persister.rec = Record{Token: "T", UserInfo: &models.UserInfo{ID: 3}}
		require.NoError(t, s.Restore())
		require.NoError(t, tokens.Set("T"))

		_, err := s.FetchProfile(context.Background())
		require.Error(t, err)
		require.NotNil(t, s.UserInfo())
		assert.Equal(t, int64(3), s.UserInfo().ID)
	})
}

// Logout does not cancel a pending profile fetch; the late response repopulates userInfo.
func TestLogoutRacingFetchProfile(t *testing.T) {
	users := &fakeUsers{
		info:    &models.UserInfo{ID: 9, Role: models.RoleMember},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, tokens, _ := newStore(users)
	require.NoError(t, tokens.Set("T"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.FetchProfile(context.Background())
	}()

	<-users.started
	require.NoError(t, s.Logout())
	close(users.release)
	wg.Wait()

	assert.Empty(t, s.Token())
	assert.Empty(t, tokenstore.Token(tokens))
	require.NotNil(t, s.UserInfo())
	assert.Equal(t, int64(9), s.UserInfo().ID)

	// The guard still treats the user as logged out
	assert.Empty(t, s.GuardState().Token)
}

func TestGuardState(t *testing.T) {
	s, tokens, _ := newStore(&fakeUsers{})
	assert.Equal(t, router.State{}, s.GuardState())

	require.NoError(t, tokens.Set("T"))
	assert.Equal(t, router.State{Token: "T", Role: models.RoleAnonymous}, s.GuardState())
}

func TestRestore(t *testing.T) {
	s, _, persister := newStore(&fakeUsers{})
	persister.rec = Record{Token: "T", UserInfo: &models.UserInfo{ID: 4, Role: models.RoleAdmin}}

	require.NoError(t, s.Restore())
	assert.Equal(t, "T", s.Token())
	assert.True(t, s.IsAdmin())
}

func testPersister(t *testing.T, p Persister) {
	t.Helper()

	rec, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)

	want := Record{Token: "T", UserInfo: &models.UserInfo{ID: 5, Username: "alice", Role: models.RoleClubAdmin, ManagedClubIDs: []int64{2, 3}}}
	require.NoError(t, p.Save(want))
	rec, err = p.Load()
	require.NoError(t, err)
	assert.Equal(t, want, rec)

	// Save replaces the record
	want.UserInfo.RealName = "Alice"
	require.NoError(t, p.Save(want))
	rec, err = p.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.UserInfo.RealName)

	require.NoError(t, p.Clear())
	require.NoError(t, p.Clear())
	rec, err = p.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}

func TestFilePersister(t *testing.T) {
	testPersister(t, NewFilePersister(filepath.Join(t.TempDir(), "nested", RecordKey+".json")))
}

func TestSQLitePersister(t *testing.T) {
	p, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	testPersister(t, p)
}

func TestExpire_ClearsMemoryAndRecord(t *testing.T) {
	s, tokens, persister := newStore(&fakeUsers{loginResult: &models.LoginResult{
		Token: "T", UserInfo: &models.UserInfo{ID: 1, Role: models.RoleAdmin},
	}})
	_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	// The client empties the slot before the session hears about the 401
	require.NoError(t, tokens.Remove())
	s.Expire()

	assert.Equal(t, Anonymous, s.State())
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.UserInfo())
	assert.Equal(t, Record{}, persister.rec)
}

func TestOnChange_FiresOnUserChanges(t *testing.T) {
	s, _, _ := newStore(&fakeUsers{loginResult: &models.LoginResult{Token: "T", UserInfo: &models.UserInfo{ID: 1}}})

	calls := 0
	s.OnChange(func() { calls++ })

	_, err := s.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	require.NoError(t, s.Logout())
	assert.Equal(t, 2, calls)

	s.Expire()
	assert.Equal(t, 3, calls)
}
