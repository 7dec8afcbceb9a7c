package api

import (
	"context"
	"net/http"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

// ClubAdminAPI manages activities and membership of one club
type ClubAdminAPI struct {
	doer Doer
}

func (a *ClubAdminAPI) CreateActivity(ctx context.Context, form models.ActivityForm) error {
	return a.doer.Do(ctx, client.Request{URL: "/club-admin/activity/create", Method: http.MethodPost, Data: form}, nil)
}

func (a *ClubAdminAPI) UpdateActivity(ctx context.Context, id int64, form models.ActivityForm) error {
	return a.doer.Do(ctx, client.Request{URL: path("/club-admin/activity/%d", id), Method: http.MethodPut, Data: form}, nil)
}

func (a *ClubAdminAPI) CancelActivity(ctx context.Context, id int64) error {
	return a.doer.Do(ctx, client.Request{URL: path("/club-admin/activity/%d/cancel", id), Method: http.MethodPut}, nil)
}

func (a *ClubAdminAPI) Signups(ctx context.Context, id int64, q models.PageQuery) (*models.Page[models.Signup], error) {
	var out models.Page[models.Signup]
	err := a.doer.Do(ctx, client.Request{
		URL:    path("/club-admin/activity/%d/signups", id),
		Method: http.MethodGet,
		Params: q.Values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkin marks a signup as checked in, or absent when req.Absent is set
func (a *ClubAdminAPI) Checkin(ctx context.Context, id int64, req models.CheckinRequest) error {
	return a.doer.Do(ctx, client.Request{URL: path("/club-admin/activity/%d/checkin", id), Method: http.MethodPost, Data: req}, nil)
}

func (a *ClubAdminAPI) PendingApplications(ctx context.Context, clubID int64, q models.PageQuery) (*models.Page[models.Application], error) {
	var out models.Page[models.Application]
	err := a.doer.Do(ctx, client.Request{
		URL:    path("/club/management/%d/applications/pending", clubID),
		Method: http.MethodGet,
		Params: q.Values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClubAdminAPI) ReviewApplication(ctx context.Context, clubID int64, req models.ReviewRequest) error {
	return a.doer.Do(ctx, client.Request{
		URL:    path("/club/management/%d/applications/review", clubID),
		Method: http.MethodPost,
		Data:   req,
	}, nil)
}

func (a *ClubAdminAPI) UpdateClub(ctx context.Context, clubID int64, form models.ClubForm) error {
	return a.doer.Do(ctx, client.Request{URL: path("/club/management/%d", clubID), Method: http.MethodPut, Data: form}, nil)
}
