package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

// CreateTask stores info as a single task or, when it repeats, as one task
// per occurrence sharing a fresh recurrence id. Either every instance is
// stored or none is.
func (s *Service) CreateTask(ctx context.Context, info *model.TaskCreate) ([]*model.Task, error) {
	info.Normalize()

	days, err := recurrence.Expand(info.RepeatType, info.OccursOn, info.Until)
	if err != nil {
		return nil, fmt.Errorf("expand %v: %w", info.RepeatType, err)
	}

	var recurrenceID *string
	if info.RepeatType != model.RepeatTypeNone {
		id := s.newSeriesID()
		recurrenceID = &id
	}

	tasks := make([]*model.Task, len(days))
	for i, d := range days {
		tasks[i] = &model.Task{
			OwnerID:         info.OwnerID,
			Title:           info.Title,
			Description:     info.Description,
			OccursOn:        d,
			Visibility:      info.Visibility,
			AllowedGroupIDs: info.AllowedGroupIDs,
			RecurrenceID:    recurrenceID,
		}
	}

	if err := database.WithTx(ctx, s.db, func(tx database.Tx) error {
		ids, err := s.tasksRepository.CreateTasks(ctx, tx, tasks)
		if err != nil {
			return fmt.Errorf("tasksRepository.CreateTasks: %w", err)
		}

		for i, id := range ids {
			tasks[i].ID = id
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return tasks, nil
}
