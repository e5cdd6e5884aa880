package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

var ErrSelfFriendship = errors.New("users can't befriend themselves")

type Service struct {
	db      database.PGX
	friends friendsRepository
	groups  groupsRepository
	viewers viewerInvalidator
}

type friendsRepository interface {
	CreateRequest(ctx context.Context, q database.Queryable, requesterID, addresseeID int64) error
	GetFriendship(ctx context.Context, q database.Queryable, a, b int64) (*model.Friendship, error)
	Accept(ctx context.Context, q database.Queryable, requesterID, addresseeID int64) error
	Delete(ctx context.Context, q database.Queryable, a, b int64) error
	GetFriendIDs(ctx context.Context, q database.Queryable, userID int64) ([]int64, error)
}

type groupsRepository interface {
	CreateGroup(ctx context.Context, q database.Queryable, group *model.GroupCreate) (int64, error)
	GetGroup(ctx context.Context, q database.Queryable, id int64) (*model.Group, error)
	GetUserGroups(ctx context.Context, q database.Queryable, userID int64) ([]*model.Group, error)
	GetUserGroupSettings(ctx context.Context, q database.Queryable, filter model.UserGroupSettingsFilter) ([]*model.GroupSettings, error)
	AddUserToGroup(ctx context.Context, q database.Queryable, settings *model.GroupSettings) error
	UpdateGroup(ctx context.Context, q database.Queryable, groupID int64, name, description string) error
	UpdateGroupSettings(ctx context.Context, q database.Queryable, settings *model.GroupSettings) error
	RemoveUserFromGroup(ctx context.Context, q database.Queryable, groupID int64, userID int64) error
}

type viewerInvalidator interface {
	InvalidateViewers(ctx context.Context, ids ...int64)
}

func NewService(db database.PGX, friends friendsRepository, groups groupsRepository, viewers viewerInvalidator) *Service {
	return &Service{
		db:      db,
		friends: friends,
		groups:  groups,
		viewers: viewers,
	}
}

// Befriend sends a request from userID to otherID, or confirms the request
// otherID already sent. It returns the resulting friendship status.
func (s *Service) Befriend(ctx context.Context, userID, otherID int64) (model.FriendshipStatus, error) {
	if userID == otherID {
		return "", ErrSelfFriendship
	}

	existing, err := s.friends.GetFriendship(ctx, s.db, userID, otherID)
	switch {
	case errors.Is(err, model.ErrNoRecord):
		if err := s.friends.CreateRequest(ctx, s.db, userID, otherID); err != nil {
			return "", fmt.Errorf("friends.CreateRequest: %w", err)
		}
		return model.FriendshipPending, nil
	case err != nil:
		return "", fmt.Errorf("friends.GetFriendship: %w", err)
	}

	if existing.Status == model.FriendshipAccepted || existing.RequesterID == userID {
		return existing.Status, nil
	}

	if err := s.friends.Accept(ctx, s.db, otherID, userID); err != nil {
		return "", fmt.Errorf("friends.Accept: %w", err)
	}

	s.viewers.InvalidateViewers(ctx, userID, otherID)
	return model.FriendshipAccepted, nil
}

func (s *Service) Unfriend(ctx context.Context, userID, otherID int64) error {
	if err := s.friends.Delete(ctx, s.db, userID, otherID); err != nil {
		return fmt.Errorf("friends.Delete: %w", err)
	}

	s.viewers.InvalidateViewers(ctx, userID, otherID)
	return nil
}

func (s *Service) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.friends.GetFriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("friends.GetFriendIDs: %w", err)
	}

	return ids, nil
}
