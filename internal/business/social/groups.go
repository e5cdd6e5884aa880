package social

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/gerow/go-color"
)

type UserGroup struct {
	Group    *model.Group
	Settings *model.GroupSettings
}

// CreateGroup creates a ministry led by its creator with usersIDs as members.
func (s *Service) CreateGroup(ctx context.Context, info *model.GroupCreate, usersIDs []int64, groupColor color.RGB) (int64, error) {
	var groupID int64

	if err := database.WithTx(ctx, s.db, func(tx database.Tx) error {
		var err error
		groupID, err = s.groups.CreateGroup(ctx, tx, info)
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		if err := s.groups.AddUserToGroup(ctx, tx, &model.GroupSettings{
			UserID:  info.CreatorID,
			GroupID: groupID,
			Color:   groupColor,
			Role:    model.GroupRoleLeader,
		}); err != nil {
			return fmt.Errorf("add creator to group: %w", err)
		}

		for _, user := range usersIDs {
			if user == info.CreatorID {
				continue
			}
			if err := s.groups.AddUserToGroup(ctx, tx, &model.GroupSettings{
				UserID:  user,
				GroupID: groupID,
				Color:   groupColor,
				Role:    model.GroupRoleMember,
			}); err != nil {
				return fmt.Errorf("add user to group: %w", err)
			}
		}
		return nil
	}); err != nil {
		return 0, err
	}

	s.viewers.InvalidateViewers(ctx, append([]int64{info.CreatorID}, usersIDs...)...)
	return groupID, nil
}

// GetUserGroups lists the groups of userID with that user's settings for each.
func (s *Service) GetUserGroups(ctx context.Context, userID int64) ([]UserGroup, error) {
	groups, err := s.groups.GetUserGroups(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("get groups by user id %v: %w", userID, err)
	}

	settings, err := s.groups.GetUserGroupSettings(ctx, s.db, model.UserGroupSettingsFilter{UserIDs: []int64{userID}})
	if err != nil {
		return nil, fmt.Errorf("get groups settings for user %v: %w", userID, err)
	}

	settingsMap := make(map[int64]*model.GroupSettings)
	for _, s := range settings {
		settingsMap[s.GroupID] = s
	}

	res := make([]UserGroup, len(groups))
	for i, g := range groups {
		s, ok := settingsMap[g.ID]
		if !ok {
			return nil, fmt.Errorf("no settings for group %d", g.ID)
		}
		res[i] = UserGroup{Group: g, Settings: s}
	}

	return res, nil
}

// JoinGroup adds userID as a plain member.
func (s *Service) JoinGroup(ctx context.Context, userID, groupID int64, groupColor color.RGB) error {
	group, err := s.groups.GetGroup(ctx, s.db, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}

	for _, id := range group.UsersIDs {
		if id == userID {
			return model.ErrAlreadyExists
		}
	}

	if err := s.groups.AddUserToGroup(ctx, s.db, &model.GroupSettings{
		UserID:  userID,
		GroupID: groupID,
		Color:   groupColor,
		Role:    model.GroupRoleMember,
	}); err != nil {
		return fmt.Errorf("add user to group: %w", err)
	}

	s.viewers.InvalidateViewers(ctx, userID)
	return nil
}

func (s *Service) LeaveGroup(ctx context.Context, userID, groupID int64) error {
	group, err := s.groups.GetGroup(ctx, s.db, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}

	member := false
	for _, id := range group.UsersIDs {
		if id == userID {
			member = true
			break
		}
	}
	if !member {
		return model.ErrNoRecord
	}

	if err := s.groups.RemoveUserFromGroup(ctx, s.db, groupID, userID); err != nil {
		return fmt.Errorf("remove user from group: %w", err)
	}

	s.viewers.InvalidateViewers(ctx, userID)
	return nil
}

func (s *Service) membership(ctx context.Context, userID, groupID int64) (*model.GroupSettings, error) {
	settings, err := s.groups.GetUserGroupSettings(ctx, s.db, model.UserGroupSettingsFilter{
		UserIDs:  []int64{userID},
		GroupIDs: []int64{groupID},
	})
	if err != nil {
		return nil, fmt.Errorf("get settings of user %v in group %v: %w", userID, groupID, err)
	}

	if len(settings) == 0 {
		return nil, model.ErrNoRecord
	}

	return settings[0], nil
}

// UpdateGroup renames a group. Only its leaders may do this.
func (s *Service) UpdateGroup(ctx context.Context, userID, groupID int64, name, description string) error {
	settings, err := s.membership(ctx, userID, groupID)
	if err != nil {
		return err
	}

	if settings.Role != model.GroupRoleLeader {
		return model.ErrForbidden
	}

	if err := s.groups.UpdateGroup(ctx, s.db, groupID, name, description); err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	return nil
}

// SetGroupColor changes the color userID sees the group in.
func (s *Service) SetGroupColor(ctx context.Context, userID, groupID int64, groupColor color.RGB) error {
	settings, err := s.membership(ctx, userID, groupID)
	if err != nil {
		return err
	}

	settings.Color = groupColor
	if err := s.groups.UpdateGroupSettings(ctx, s.db, settings); err != nil {
		return fmt.Errorf("update group settings: %w", err)
	}

	return nil
}
