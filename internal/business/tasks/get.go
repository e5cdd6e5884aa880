package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/visibility"
)

// GetFeed returns the tasks userID may see in [filter.From, filter.To),
// grouped into series. Only tasks of the user, their friends and their group
// co-members are considered. filter.OwnerIDs narrows that set further.
func (s *Service) GetFeed(ctx context.Context, userID int64, filter model.TaskFilter) ([]recurrence.Group, error) {
	viewer, err := s.Viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	owners, err := s.candidateOwners(ctx, viewer)
	if err != nil {
		return nil, err
	}

	if len(filter.OwnerIDs) != 0 {
		narrowed := make([]int64, 0, len(filter.OwnerIDs))
		for _, id := range filter.OwnerIDs {
			if _, ok := owners[id]; ok {
				narrowed = append(narrowed, id)
			}
		}
		if len(narrowed) == 0 {
			return []recurrence.Group{}, nil
		}
		filter.OwnerIDs = narrowed
	} else {
		filter.OwnerIDs = make([]int64, 0, len(owners))
		for id := range owners {
			filter.OwnerIDs = append(filter.OwnerIDs, id)
		}
	}

	tasks, err := s.tasksRepository.GetTasks(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetTasks: %w", err)
	}

	visible := s.filter.Visible(viewer, tasks)
	if err := s.markLiked(ctx, userID, visible); err != nil {
		return nil, err
	}

	return recurrence.GroupTasks(visible), nil
}

func (s *Service) candidateOwners(ctx context.Context, viewer *model.Viewer) (map[int64]struct{}, error) {
	owners := map[int64]struct{}{viewer.ID: {}}
	for id := range viewer.FriendIDs {
		owners[id] = struct{}{}
	}

	groupIDs := make([]int64, 0, len(viewer.GroupIDs))
	for id := range viewer.GroupIDs {
		groupIDs = append(groupIDs, id)
	}

	members, err := s.groupsRepository.GetMemberIDs(ctx, s.db, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("groupsRepository.GetMemberIDs: %w", err)
	}

	for _, id := range members {
		owners[id] = struct{}{}
	}

	return owners, nil
}

func (s *Service) markLiked(ctx context.Context, userID int64, tasks []*model.Task) error {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	liked, err := s.tasksRepository.GetLikedTaskIDs(ctx, s.db, userID, ids)
	if err != nil {
		return fmt.Errorf("tasksRepository.GetLikedTaskIDs: %w", err)
	}

	for _, t := range tasks {
		_, t.LikedByViewer = liked[t.ID]
	}

	return nil
}

// GetTask returns model.ErrNoRecord both for missing tasks and for tasks
// userID may not see.
func (s *Service) GetTask(ctx context.Context, userID, id int64) (*model.Task, error) {
	task, err := s.visibleTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.markLiked(ctx, userID, []*model.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// GetSeries returns every instance of a series visible to userID.
func (s *Service) GetSeries(ctx context.Context, userID int64, recurrenceID string) (recurrence.Group, error) {
	series, err := s.tasksRepository.GetSeries(ctx, s.db, recurrenceID)
	if err != nil {
		return recurrence.Group{}, fmt.Errorf("tasksRepository.GetSeries: %w", err)
	}

	if len(series) == 0 {
		return recurrence.Group{}, model.ErrNoRecord
	}

	viewer, err := s.Viewer(ctx, userID)
	if err != nil {
		return recurrence.Group{}, err
	}

	owners, err := s.candidateOwners(ctx, viewer)
	if err != nil {
		return recurrence.Group{}, err
	}

	related := series[:0:0]
	for _, t := range series {
		if _, ok := owners[t.OwnerID]; ok {
			related = append(related, t)
		}
	}

	groups := recurrence.GroupTasks(s.filter.Visible(viewer, related))
	if len(groups) == 0 {
		return recurrence.Group{}, model.ErrNoRecord
	}

	return groups[0], nil
}

func (s *Service) visibleTask(ctx context.Context, userID, id int64) (*model.Task, error) {
	task, err := s.tasksRepository.GetTaskByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetTaskByID: %w", err)
	}

	if task.OwnerID == userID {
		return task, nil
	}

	viewer, err := s.Viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	owners, err := s.candidateOwners(ctx, viewer)
	if err != nil {
		return nil, err
	}

	// The feed only ever loads tasks of related users; direct reads follow suit.
	if _, related := owners[task.OwnerID]; !related || !visibility.IsVisible(task, viewer) {
		return nil, model.ErrNoRecord
	}

	return task, nil
}
