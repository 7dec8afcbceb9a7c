// Package api maps every backend endpoint to a method. Methods build the request and
// return the client's result unmodified: no retries, caching or business logic.
package api

import (
	"context"
	"fmt"

	"github.com/clubdesk/console/internal/client"
)

// Doer sends a request; *client.Client implements it
type Doer interface {
	Do(ctx context.Context, req client.Request, out any) error
}

// API groups the endpoint modules
type API struct {
	User      *UserAPI
	Club      *ClubAPI
	Activity  *ActivityAPI
	ClubAdmin *ClubAdminAPI
	Admin     *AdminAPI
}

// New builds every module over doer
func New(doer Doer) *API {
	return &API{
		User:      &UserAPI{doer: doer},
		Club:      &ClubAPI{doer: doer},
		Activity:  &ActivityAPI{doer: doer},
		ClubAdmin: &ClubAdminAPI{doer: doer},
		Admin:     &AdminAPI{doer: doer},
	}
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
