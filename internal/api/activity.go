package api

import (
	"context"
	"net/http"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

// ActivityAPI is the member-facing activity endpoints
type ActivityAPI struct {
	doer Doer
}

func (a *ActivityAPI) List(ctx context.Context, q models.ActivityQuery) (*models.Page[models.Activity], error) {
	var out models.Page[models.Activity]
	if err := a.doer.Do(ctx, client.Request{URL: "/activity/list", Method: http.MethodGet, Params: q.Values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivityAPI) Detail(ctx context.Context, id int64) (*models.Activity, error) {
	var out models.Activity
	if err := a.doer.Do(ctx, client.Request{URL: path("/activity/%d", id), Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivityAPI) MySignups(ctx context.Context, q models.PageQuery) (*models.Page[models.Signup], error) {
	var out models.Page[models.Signup]
	if err := a.doer.Do(ctx, client.Request{URL: "/activity/my-signups", Method: http.MethodGet, Params: q.Values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivityAPI) Signup(ctx context.Context, id int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/activity/%d/signup", id), Method: http.MethodPost}, nil)
}

func (a *ActivityAPI) CancelSignup(ctx context.Context, id int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/activity/%d/signup", id), Method: http.MethodDelete}, nil)
}
