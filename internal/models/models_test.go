package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" CLUB_ADMIN ", RoleClubAdmin},
		{"MEMBER", RoleMember},
		{"STUDENT", RoleMember},
		{"", RoleAnonymous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.in), "ParseRole(%q)", tt.in)
	}
}

func TestRole_JSON(t *testing.T) {
	var info UserInfo
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"username":"a","role":"CLUB_ADMIN"}`), &info))
	assert.Equal(t, RoleClubAdmin, info.Role)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role":"CLUB_ADMIN"`)
}

func TestRole_YAML(t *testing.T) {
	data, err := yaml.Marshal(UserInfo{Username: "a", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Contains(t, string(data), "role: ADMIN")
}

func TestQueryValues(t *testing.T) {
	assert.Empty(t, PageQuery{}.Values())

	v := ClubQuery{PageQuery: PageQuery{PageNum: 2, PageSize: 20}, Category: "Sports"}.Values()
	assert.Equal(t, "2", v.Get("pageNum"))
	assert.Equal(t, "20", v.Get("pageSize"))
	assert.Equal(t, "Sports", v.Get("category"))
	assert.False(t, v.Has("name"))

	v = ActivityQuery{ClubID: 3, Status: ActivityPublished}.Values()
	assert.Equal(t, "3", v.Get("clubId"))
	assert.Equal(t, "PUBLISHED", v.Get("status"))
	assert.False(t, v.Has("pageNum"))
}
