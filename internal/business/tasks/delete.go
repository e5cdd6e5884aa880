package tasks

import (
	"context"
	"fmt"
)

func (s *Service) DeleteTask(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedTask(ctx, userID, id); err != nil {
		return err
	}

	if err := s.tasksRepository.DeleteTask(ctx, s.db, id); err != nil {
		return fmt.Errorf("tasksRepository.DeleteTask: %w", err)
	}

	return nil
}

func (s *Service) DeleteSeries(ctx context.Context, userID int64, recurrenceID string) error {
	if _, err := s.ownedSeries(ctx, userID, recurrenceID); err != nil {
		return err
	}

	if _, err := s.tasksRepository.DeleteSeries(ctx, s.db, userID, recurrenceID); err != nil {
		return fmt.Errorf("tasksRepository.DeleteSeries: %w", err)
	}

	return nil
}
