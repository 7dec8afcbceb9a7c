package models

import (
	"net/url"
	"strconv"
)

// PageQuery carries the pagination parameters shared by list endpoints
type PageQuery struct {
	PageNum  int
	PageSize int
}

// Values encodes the query as URL parameters, omitting zero values
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	if q.PageNum > 0 {
		v.Set("pageNum", strconv.Itoa(q.PageNum))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// ClubQuery filters /club/list
type ClubQuery struct {
	PageQuery
	Name     string
	Category string
}

// Values encodes the query as URL parameters
func (q ClubQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// ActivityQuery filters activity lists
type ActivityQuery struct {
	PageQuery
	Name   string
	ClubID int64
	Status string
}

// Values encodes the query as URL parameters
func (q ActivityQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.ClubID > 0 {
		v.Set("clubId", strconv.FormatInt(q.ClubID, 10))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}
