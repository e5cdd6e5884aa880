package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

func (s *Service) UpdateTask(ctx context.Context, userID, id int64, info *model.TaskUpdate) (*model.Task, error) {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	info.Normalize()
	task.Title = info.Title
	task.Description = info.Description
	task.OccursOn = info.OccursOn
	task.Visibility = info.Visibility
	task.AllowedGroupIDs = info.AllowedGroupIDs

	if err := s.tasksRepository.UpdateTask(ctx, s.db, task); err != nil {
		return nil, fmt.Errorf("tasksRepository.UpdateTask: %w", err)
	}

	return task, nil
}

func (s *Service) SetTaskCompletion(ctx context.Context, userID, id int64, completed bool) (*model.Task, error) {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.tasksRepository.SetTaskCompletion(ctx, s.db, id, completed); err != nil {
		return nil, fmt.Errorf("tasksRepository.SetTaskCompletion: %w", err)
	}

	task.Completed = completed
	return task, nil
}

// SetSeriesCompletion marks every instance of a series. The write is a single
// statement in a transaction that is rolled back unless it touched exactly
// the instances that were read.
func (s *Service) SetSeriesCompletion(ctx context.Context, userID int64, recurrenceID string, completed bool) ([]*model.Task, error) {
	series, err := s.ownedSeries(ctx, userID, recurrenceID)
	if err != nil {
		return nil, err
	}

	if err := database.WithTx(ctx, s.db, func(tx database.Tx) error {
		n, err := s.tasksRepository.SetSeriesCompletion(ctx, tx, userID, recurrenceID, completed)
		if err != nil {
			return fmt.Errorf("tasksRepository.SetSeriesCompletion: %w", err)
		}

		if n != int64(len(series)) {
			return fmt.Errorf("series %s changed concurrently: updated %d of %d: %w", recurrenceID, n, len(series), ErrConflict)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	groups := recurrence.GroupTasks(series)
	return recurrence.SetGroupCompletion(groups[0], completed), nil
}
