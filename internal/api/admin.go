package api

import (
	"context"
	"net/http"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

// AdminAPI is the system administrator endpoints
type AdminAPI struct {
	doer Doer
}

func (a *AdminAPI) CreateClub(ctx context.Context, form models.ClubForm) error {
	return a.doer.Do(ctx, client.Request{URL: "/admin/club/create", Method: http.MethodPost, Data: form}, nil)
}

// UpdateClub updates the club identified by form.ID
func (a *AdminAPI) UpdateClub(ctx context.Context, form models.ClubForm) error {
	return a.doer.Do(ctx, client.Request{URL: "/admin/club/update", Method: http.MethodPut, Data: form}, nil)
}

func (a *AdminAPI) DeleteClub(ctx context.Context, id int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/admin/club/%d", id), Method: http.MethodDelete}, nil)
}

// PendingApplications lists pending join requests across all clubs
func (a *AdminAPI) PendingApplications(ctx context.Context, q models.PageQuery) (*models.Page[models.Application], error) {
	var out models.Page[models.Application]
	err := a.doer.Do(ctx, client.Request{URL: "/admin/club/applications/pending", Method: http.MethodGet, Params: q.Values()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminAPI) ReviewApplication(ctx context.Context, req models.ReviewRequest) error {
	return a.doer.Do(ctx, client.Request{URL: "/admin/club/applications/review", Method: http.MethodPost, Data: req}, nil)
}

func (a *AdminAPI) SetLeader(ctx context.Context, clubID, userID int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/admin/club/%d/leader/%d", clubID, userID), Method: http.MethodPost}, nil)
}

func (a *AdminAPI) RemoveLeader(ctx context.Context, clubID, userID int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/admin/club/%d/leader/%d", clubID, userID), Method: http.MethodDelete}, nil)
}

// Activities lists every activity regardless of club or status
func (a *AdminAPI) Activities(ctx context.Context, q models.ActivityQuery) (*models.Page[models.Activity], error) {
	var out models.Page[models.Activity]
	if err := a.doer.Do(ctx, client.Request{URL: "/admin/activity/list", Method: http.MethodGet, Params: q.Values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminAPI) ReviewActivity(ctx context.Context, id int64, review models.ActivityReview) error {
	return a.doer.Do(ctx, client.Request{URL: path("/admin/activity/%d/review", id), Method: http.MethodPut, Data: review}, nil)
}

func (a *AdminAPI) DeleteActivity(ctx context.Context, id int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/admin/activity/%d", id), Method: http.MethodDelete}, nil)
}
