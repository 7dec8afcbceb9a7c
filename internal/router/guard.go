package router

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/models"
)

// State is what the guard needs to know about the session
type State struct {
	Token string
	Role  models.Role
}

// Outcome is one of the four mutually exclusive guard results
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectAlreadyLoggedIn
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectAlreadyLoggedIn:
		return "redirect_already_logged_in"
	case RedirectForbidden:
		return "redirect_forbidden"
	}
	return "unknown"
}

// Decision is the guard result and the path to go to instead, if any
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Allowed reports whether the transition may proceed
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Guard decides a transition to route. It never performs I/O.
func Guard(route Route, st State) Decision {
	hasToken := st.Token != ""

	if !route.RequiresAuth {
		if hasToken && route.Path == PathLogin {
			return Decision{Outcome: RedirectAlreadyLoggedIn, Redirect: PathDashboard}
		}
		return Decision{Outcome: Allow}
	}

	if !hasToken {
		return Decision{Outcome: RedirectLogin, Redirect: PathLogin}
	}

	if !route.Permits(st.Role) {
		return Decision{Outcome: RedirectForbidden, Redirect: PathDashboard}
	}

	return Decision{Outcome: Allow}
}

// StateSource supplies the current session state to the router
type StateSource interface {
	GuardState() State
}

// Router tracks the current location and runs the guard on every transition.
// It satisfies the client's Navigator so a 401 can force the login view.
type Router struct {
	table  *Table
	state  StateSource
	logger zerolog.Logger

	mu      sync.RWMutex
	current string
}

// New creates a router positioned at the root path
func New(table *Table, state StateSource, logger zerolog.Logger) *Router {
	return &Router{table: table, state: state, logger: logger, current: PathRoot}
}

// Table returns the route table the router resolves against
func (r *Router) Table() *Table {
	return r.table
}

// Push resolves path, guards it and follows at most one redirect. It returns the
// route finally shown and the decision taken for the requested path.
func (r *Router) Push(path string) (Route, Decision) {
	st := r.state.GuardState()
	target := r.table.Resolve(path)
	decision := Guard(target, st)

	shown := target
	location := normalize(path)
	if _, ok := r.table.Lookup(path); !ok {
		location = target.Path
	}
	if !decision.Allowed() {
		shown = r.table.Resolve(decision.Redirect)
		// A redirect target that is itself refused falls back to login
		if !Guard(shown, st).Allowed() {
			shown = r.table.Resolve(PathLogin)
		}
		location = shown.Path
	}

	r.logger.Debug().
		Str("requested", path).
		Str("route", target.Name).
		Str("outcome", decision.Outcome.String()).
		Str("location", location).
		Msg("Route transition")

	r.mu.Lock()
	r.current = location
	r.mu.Unlock()

	return shown, decision
}

// Navigate moves to path, discarding the decision
func (r *Router) Navigate(path string) {
	r.Push(path)
}

// Current returns the location being shown
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
