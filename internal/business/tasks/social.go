package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

func (s *Service) LikeTask(ctx context.Context, userID, taskID int64) error {
	if _, err := s.visibleTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.tasksRepository.AddLike(ctx, s.db, taskID, userID); err != nil {
		return fmt.Errorf("tasksRepository.AddLike: %w", err)
	}

	return nil
}

func (s *Service) UnlikeTask(ctx context.Context, userID, taskID int64) error {
	if _, err := s.visibleTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.tasksRepository.RemoveLike(ctx, s.db, taskID, userID); err != nil {
		return fmt.Errorf("tasksRepository.RemoveLike: %w", err)
	}

	return nil
}

func (s *Service) AddComment(ctx context.Context, userID, taskID int64, body string) (*model.Comment, error) {
	if _, err := s.visibleTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	comment, err := s.tasksRepository.CreateComment(ctx, s.db, &model.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.CreateComment: %w", err)
	}

	return comment, nil
}

func (s *Service) GetComments(ctx context.Context, userID, taskID int64) ([]*model.Comment, error) {
	if _, err := s.visibleTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.tasksRepository.GetComments(ctx, s.db, taskID)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetComments: %w", err)
	}

	return comments, nil
}
