package api

import (
	"context"
	"net/http"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

// UserAPI covers the current user's account
type UserAPI struct {
	doer Doer
}

// Login exchanges credentials for a token and profile.
// silent suppresses the generic notice so the login form can show its own message.
func (a *UserAPI) Login(ctx context.Context, creds models.Credentials, silent bool) (*models.LoginResult, error) {
	var out models.LoginResult
	err := a.doer.Do(ctx, client.Request{
		URL:    "/user/login",
		Method: http.MethodPost,
		Data:   creds,
		Silent: silent,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Info fetches the profile of the token's owner
func (a *UserAPI) Info(ctx context.Context) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := a.doer.Do(ctx, client.Request{URL: "/user/info", Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the current user's profile
func (a *UserAPI) Update(ctx context.Context, req models.UpdateProfileRequest) error {
	return a.doer.Do(ctx, client.Request{URL: "/user/update", Method: http.MethodPost, Data: req}, nil)
}
