package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"golang.org/x/sync/errgroup"
)

// Viewer resolves the friends and groups of userID. The result is cached;
// cache failures only cost a database round trip.
func (s *Service) Viewer(ctx context.Context, userID int64) (*model.Viewer, error) {
	cached, err := s.viewers.Get(ctx, userID)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, model.ErrNoRecord):
		s.logger.Warnw("viewer cache read failed", "user_id", userID, "err", err)
	}

	gen, err := s.viewers.Generation(ctx, userID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warnw("viewer cache generation read failed", "user_id", userID, "err", err)
	}

	var friendIDs, groupIDs []int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		friendIDs, err = s.friendRepository.GetFriendIDs(gctx, s.db, userID)
		if err != nil {
			return fmt.Errorf("friendRepository.GetFriendIDs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		groupIDs, err = s.groupsRepository.GetUserGroupIDs(gctx, s.db, userID)
		if err != nil {
			return fmt.Errorf("groupsRepository.GetUserGroupIDs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	viewer := model.NewViewer(userID, friendIDs, groupIDs)
	if cacheable {
		if err := s.viewers.Set(ctx, viewer, gen); err != nil {
			s.logger.Warnw("viewer cache write failed", "user_id", userID, "err", err)
		}
	}

	return viewer, nil
}

// InvalidateViewers drops cached contexts after friendships or memberships change.
func (s *Service) InvalidateViewers(ctx context.Context, ids ...int64) {
	if err := s.viewers.Invalidate(ctx, ids...); err != nil {
		s.logger.Warnw("viewer cache invalidation failed", "user_ids", ids, "err", err)
	}
}
