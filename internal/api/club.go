package api

import (
	"context"
	"net/http"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

// ClubAPI is the member-facing club endpoints
type ClubAPI struct {
	doer Doer
}

func (a *ClubAPI) List(ctx context.Context, q models.ClubQuery) (*models.Page[models.Club], error) {
	var out models.Page[models.Club]
	if err := a.doer.Do(ctx, client.Request{URL: "/club/list", Method: http.MethodGet, Params: q.Values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClubAPI) Detail(ctx context.Context, id int64) (*models.Club, error) {
	var out models.Club
	if err := a.doer.Do(ctx, client.Request{URL: path("/club/%d", id), Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClubAPI) Members(ctx context.Context, id int64, q models.PageQuery) (*models.Page[models.ClubMember], error) {
	var out models.Page[models.ClubMember]
	err := a.doer.Do(ctx, client.Request{
		URL:    path("/club/%d/members", id),
		Method: http.MethodGet,
		Params: q.Values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine lists the clubs the current user has joined
func (a *ClubAPI) Mine(ctx context.Context) ([]models.Club, error) {
	var out []models.Club
	if err := a.doer.Do(ctx, client.Request{URL: "/club/my", Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply submits a request to join a club
func (a *ClubAPI) Apply(ctx context.Context, req models.ApplyRequest) error {
	return a.doer.Do(ctx, client.Request{URL: "/club/apply", Method: http.MethodPost, Data: req}, nil)
}

// MyApplications lists the current user's join requests
func (a *ClubAPI) MyApplications(ctx context.Context, q models.PageQuery) (*models.Page[models.Application], error) {
	var out models.Page[models.Application]
	err := a.doer.Do(ctx, client.Request{URL: "/club/my/applications", Method: http.MethodGet, Params: q.Values()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
