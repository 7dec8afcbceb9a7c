package models

import (
	"encoding/json"
	"strings"
)

// Role is the permission level of the current user.
type Role int

const (
	RoleAnonymous Role = iota
	RoleMember
	RoleClubAdmin
	RoleAdmin
)

// String returns the wire form of the role
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleClubAdmin:
		return "CLUB_ADMIN"
	case RoleMember:
		return "MEMBER"
	case RoleAnonymous:
		return ""
	}
	return ""
}

// ParseRole maps a wire role to the closed enumeration. Empty is anonymous and
// anything else unrecognised is a member.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "CLUB_ADMIN":
		return RoleClubAdmin
	case "":
		return RoleAnonymous
	default:
		return RoleMember
	}
}

// MarshalJSON encodes the role as its wire string
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire role string
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// MarshalYAML encodes the role as its wire string
func (r Role) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}
