package model

import (
	"github.com/gerow/go-color"
)

type GroupRole string

const (
	GroupRoleLeader GroupRole = "leader"
	GroupRoleMember GroupRole = "member"
)

// GroupCreate describes a ministry or small group.
type GroupCreate struct {
	Name        string
	Description string
	CreatorID   int64
}

type Group struct {
	ID       int64
	UsersIDs []int64
	GroupCreate
}

type GroupSettings struct {
	UserID  int64
	GroupID int64
	Color   color.RGB
	Role    GroupRole
}

type UserGroupSettingsFilter struct {
	UserIDs  []int64
	GroupIDs []int64
}
