package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/visibility"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrConflict = errors.New("conflicting concurrent update")

type Service struct {
	db               database.PGX
	logger           *zap.SugaredLogger
	tasksRepository  tasksRepository
	groupsRepository groupsRepository
	friendRepository friendsRepository
	viewers          viewerCache
	filter           *visibility.Filter
	newSeriesID      func() string
}

type tasksRepository interface {
	CreateTasks(ctx context.Context, q database.Queryable, tasks []*model.Task) ([]int64, error)
	GetTaskByID(ctx context.Context, q database.Queryable, id int64) (*model.Task, error)
	GetSeries(ctx context.Context, q database.Queryable, recurrenceID string) ([]*model.Task, error)
	GetTasks(ctx context.Context, q database.Queryable, filter model.TaskFilter) ([]*model.Task, error)
	GetLikedTaskIDs(ctx context.Context, q database.Queryable, userID int64, ids []int64) (map[int64]struct{}, error)
	UpdateTask(ctx context.Context, q database.Queryable, task *model.Task) error
	SetTaskCompletion(ctx context.Context, q database.Queryable, id int64, completed bool) error
	SetSeriesCompletion(ctx context.Context, q database.Queryable, ownerID int64, recurrenceID string, completed bool) (int64, error)
	DeleteTask(ctx context.Context, q database.Queryable, id int64) error
	DeleteSeries(ctx context.Context, q database.Queryable, ownerID int64, recurrenceID string) (int64, error)
	AddLike(ctx context.Context, q database.Queryable, taskID, userID int64) error
	RemoveLike(ctx context.Context, q database.Queryable, taskID, userID int64) error
	CreateComment(ctx context.Context, q database.Queryable, c *model.Comment) (*model.Comment, error)
	GetComments(ctx context.Context, q database.Queryable, taskID int64) ([]*model.Comment, error)
}

type groupsRepository interface {
	GetUserGroupIDs(ctx context.Context, q database.Queryable, userID int64) ([]int64, error)
	GetMemberIDs(ctx context.Context, q database.Queryable, groupIDs []int64) ([]int64, error)
}

type friendsRepository interface {
	GetFriendIDs(ctx context.Context, q database.Queryable, userID int64) ([]int64, error)
}

type viewerCache interface {
	Get(ctx context.Context, id int64) (*model.Viewer, error)
	Generation(ctx context.Context, id int64) (int64, error)
	Set(ctx context.Context, v *model.Viewer, gen int64) error
	Invalidate(ctx context.Context, ids ...int64) error
}

func NewService(
	db database.PGX,
	logger *zap.SugaredLogger,
	tasks tasksRepository,
	groups groupsRepository,
	friends friendsRepository,
	viewers viewerCache,
) *Service {
	return &Service{
		db:               db,
		logger:           logger,
		tasksRepository:  tasks,
		groupsRepository: groups,
		friendRepository: friends,
		viewers:          viewers,
		filter:           visibility.NewFilter(logger),
		newSeriesID:      func() string { return uuid.NewString() },
	}
}

// ownedTask loads a task and checks that userID owns it. Tasks the user may
// not see are reported as missing.
func (s *Service) ownedTask(ctx context.Context, userID, id int64) (*model.Task, error) {
	task, err := s.visibleTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if task.OwnerID != userID {
		return nil, model.ErrForbidden
	}

	return task, nil
}

func (s *Service) ownedSeries(ctx context.Context, userID int64, recurrenceID string) ([]*model.Task, error) {
	series, err := s.tasksRepository.GetSeries(ctx, s.db, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetSeries: %w", err)
	}

	if len(series) == 0 {
		return nil, model.ErrNoRecord
	}

	viewer, err := s.Viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, t := range series {
		if t.OwnerID == userID {
			continue
		}
		if visibility.IsVisible(t, viewer) {
			return nil, model.ErrForbidden
		}
		return nil, model.ErrNoRecord
	}

	return series, nil
}
