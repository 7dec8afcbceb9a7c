// Package session holds the current user's token and profile and the login/logout
// actions over them. A Store is an explicit object handed to whoever needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/tokenstore"
)

// RecordKey names the persisted record
const RecordKey = "user-store"

// ErrNoToken is returned by FetchProfile when nobody is logged in
var ErrNoToken = errors.New("not authenticated, please log in first")

// State is the session state machine
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Record is the persisted part of the session
type Record struct {
	Token    string           `json:"token"`
	UserInfo *models.UserInfo `json:"userInfo"`
}

// Persister loads and saves the record across restarts
type Persister interface {
	Load() (Record, error)
	Save(rec Record) error
	Clear() error
}

// UserAPI is the part of the user endpoints the store drives
type UserAPI interface {
	Login(ctx context.Context, creds models.Credentials, silent bool) (*models.LoginResult, error)
	Info(ctx context.Context) (*models.UserInfo, error)
}

// Store is the session of the current user.
// Overlapping calls are not serialised: a Logout racing a FetchProfile can be followed
// by the stale profile landing in userInfo.
type Store struct {
	users     UserAPI
	tokens    tokenstore.Store
	persister Persister
	logger    zerolog.Logger

	mu       sync.RWMutex
	token    string
	userInfo *models.UserInfo
	// listeners run after the user changes: login, logout or expiry
	listeners []func()
}

// New creates an empty (anonymous) store
func New(users UserAPI, tokens tokenstore.Store, persister Persister, logger zerolog.Logger) *Store {
	return &Store{users: users, tokens: tokens, persister: persister, logger: logger}
}

// OnChange registers fn to run whenever the logged in user changes.
// Caches keyed to the user (the dashboard snapshot) are dropped here.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// Restore loads the persisted record verbatim. Call it before the first guard evaluation.
func (s *Store) Restore() error {
	rec, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.mu.Lock()
	s.token = rec.Token
	s.userInfo = rec.UserInfo
	s.mu.Unlock()

	s.logger.Debug().Bool("has_token", rec.Token != "").Bool("has_profile", rec.UserInfo != nil).Msg("Session restored")
	return nil
}

// Login authenticates and moves to Authenticated. On failure the store is unchanged.
// The login form shows the failure itself, so the generic notice is suppressed.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	res, err := s.users.Login(ctx, creds, true)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Set(res.Token); err != nil {
		return nil, fmt.Errorf("failed to save authentication token: %w", err)
	}

	s.mu.Lock()
	s.token = res.Token
	s.userInfo = res.UserInfo
	s.mu.Unlock()

	s.save()
	s.changed()

	s.logger.Info().Str("username", creds.Username).Str("role", s.Role().String()).Msg("User logged in")
	return res, nil
}

// FetchProfile refreshes userInfo from /user/info
func (s *Store) FetchProfile(ctx context.Context) (*models.UserInfo, error) {
	if tokenstore.Token(s.tokens) == "" {
		return nil, ErrNoToken
	}

	info, err := s.users.Info(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.userInfo = info
	s.mu.Unlock()

	s.save()
	return info, nil
}

// Logout clears the session, the token slot and the persisted record. It always
// reaches Anonymous; storage failures are joined into the returned error.
func (s *Store) Logout() error {
	err := s.clear()
	s.logger.Info().Msg("User logged out")
	return err
}

// Expire drops the session after the API rejected the token. The client has already
// emptied the token slot; the in-memory copy and the persisted record follow.
func (s *Store) Expire() {
	if err := s.clear(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear expired session")
	}
	s.logger.Info().Msg("Session expired")
}

func (s *Store) clear() error {
	s.mu.Lock()
	s.token = ""
	s.userInfo = nil
	s.mu.Unlock()

	var errs []error
	if err := s.tokens.Remove(); err != nil {
		errs = append(errs, err)
	}
	if err := s.persister.Clear(); err != nil {
		errs = append(errs, err)
	}

	s.changed()
	return errors.Join(errs...)
}

func (s *Store) save() {
	s.mu.RLock()
	rec := Record{Token: s.token, UserInfo: s.userInfo}
	s.mu.RUnlock()

	if err := s.persister.Save(rec); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist session")
	}
}

// State returns Authenticated when a token is held
func (s *Store) State() State {
	if s.IsLoggedIn() {
		return Authenticated
	}
	return Anonymous
}

// Token returns the session token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserInfo returns a copy of the profile, or nil
func (s *Store) UserInfo() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userInfo == nil {
		return nil
	}
	info := *s.userInfo
	return &info
}

func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Role returns the profile role, or RoleAnonymous without a profile.
// A profile without a role is a member.
func (s *Store) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userInfo == nil {
		return models.RoleAnonymous
	}
	if s.userInfo.Role == models.RoleAnonymous {
		return models.RoleMember
	}
	return s.userInfo.Role
}

func (s *Store) IsAdmin() bool {
	return s.Role() == models.RoleAdmin
}

func (s *Store) IsClubAdmin() bool {
	switch s.Role() {
	case models.RoleClubAdmin, models.RoleAdmin:
		return true
	case models.RoleMember, models.RoleAnonymous:
		return false
	}
	return false
}

// GuardState reports the token slot and role to the navigation guard
func (s *Store) GuardState() router.State {
	return router.State{Token: tokenstore.Token(s.tokens), Role: s.Role()}
}
